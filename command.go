package xo2

import (
	"fmt"

	"github.com/gentam/xo2/bitstream"
)

// PageSize is the number of bytes written by one LSC_PROGINCRNV command.
const PageSize = bitstream.PageSize

// Command is a sysCONFIG instruction: an opcode, its operand bytes, optional
// page data and the number of reply bytes the device shifts out.
type Command struct {
	Name     string
	Opcode   byte
	Operands []byte
	Data     []byte
	ReplyLen int
}

// Bytes returns the bytes shifted into the device.
func (c Command) Bytes() []byte {
	buf := make([]byte, 0, 1+len(c.Operands)+len(c.Data))
	buf = append(buf, c.Opcode)
	buf = append(buf, c.Operands...)
	return append(buf, c.Data...)
}

func (c Command) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("0x%02X", c.Opcode)
}

// sysCONFIG commands:
//   - [TN1204|sysCONFIG Programming Commands]
var (
	cmdIDCode         = Command{Name: "IDCODE_PUB", Opcode: 0xE0, Operands: []byte{0x00, 0x00, 0x00}, ReplyLen: 4}
	cmdEnableOffline  = Command{Name: "ISC_ENABLE", Opcode: 0xC6, Operands: []byte{0x08, 0x00, 0x00}}
	cmdDisable        = Command{Name: "ISC_DISABLE", Opcode: 0x26, Operands: []byte{0x00, 0x00}}
	cmdNoop           = Command{Name: "ISC_NOOP", Opcode: 0xFF, Operands: []byte{0xFF, 0xFF, 0xFF}}
	cmdEraseConfig    = Command{Name: "ISC_ERASE", Opcode: 0x0E, Operands: []byte{0x04, 0x00, 0x00}}
	cmdProgramDone    = Command{Name: "ISC_PROGRAMDONE", Opcode: 0x5E, Operands: []byte{0x00, 0x00, 0x00}}
	cmdInitAddress    = Command{Name: "LSC_INITADDRESS", Opcode: 0x46, Operands: []byte{0x00, 0x00, 0x00}}
	cmdReadStatus     = Command{Name: "LSC_READ_STATUS", Opcode: 0x3C, Operands: []byte{0x00, 0x00, 0x00}, ReplyLen: 4}
	cmdRefresh        = Command{Name: "LSC_REFRESH", Opcode: 0x79, Operands: []byte{0x00, 0x00, 0x00}}
	cmdUsercode       = Command{Name: "USERCODE", Opcode: 0xC0, Operands: []byte{0x00, 0x00, 0x00}, ReplyLen: 4}
	cmdReadFeature    = Command{Name: "LSC_READ_FEATURE", Opcode: 0xE7, Operands: []byte{0x00, 0x00, 0x00}, ReplyLen: 8}
	cmdReadFeatureBit = Command{Name: "LSC_READ_FEABITS", Opcode: 0xFB, Operands: []byte{0x00, 0x00, 0x00}, ReplyLen: 2}
	cmdTraceID        = Command{Name: "UIDCODE_PUB", Opcode: 0x19, Operands: []byte{0x00, 0x00, 0x00}, ReplyLen: 8}
)

const opProgramPage = 0x70

// programPage builds LSC_PROGINCRNV for one page. The address register
// auto-increments, so pages must be sent in order.
func programPage(page bitstream.Frame) Command {
	return Command{
		Name:     "LSC_PROGINCRNV",
		Opcode:   opProgramPage,
		Operands: []byte{0x00, 0x00, 0x01},
		Data:     page[:],
	}
}
