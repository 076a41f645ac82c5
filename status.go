package xo2

import (
	"fmt"
	"strings"
)

// ErrorCode is the 3-bit configuration check field of the status register.
type ErrorCode uint8

const (
	NoError ErrorCode = iota
	IDErr
	CmdErr
	CRCErr
	PreambleErr
	AbortErr
	OverflowErr
	SDMEOF
)

var errorCodeNames = [...]string{
	NoError:     "No Error",
	IDErr:       "ID ERR",
	CmdErr:      "CMD ERR",
	CRCErr:      "CRC ERR",
	PreambleErr: "Preamble ERR",
	AbortErr:    "Abort ERR",
	OverflowErr: "Overflow ERR",
	SDMEOF:      "SDM EOF",
}

func (e ErrorCode) String() string {
	if int(e) < len(errorCodeNames) {
		return errorCodeNames[e]
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(e))
}

// Status is the decoded status register.
//
//	LE | BE | [TN1204|Status Register]
//	---+----+-----------------------------------
//	8  | 16 | DONE: Done flag
//	9  | 17 | ENAB: Configuration interface enabled
//	12 | 20 | BUSY: Busy flag
//	13 | 21 | FAIL: Fail flag
//	23 | 15 | ERR0
//	24 | 0  | ERR1
//	25 | 1  | ERR2
//	27 | 3  | DVER: Device version
type Status struct {
	Raw           uint32
	Done          bool
	CfgEnable     bool
	Busy          bool
	Fail          bool
	DeviceVersion bool
	Error         ErrorCode
}

type statusLayout struct {
	done, enab, busy, fail, dver uint
	err                          [3]uint // ERR0, ERR1, ERR2
}

var statusLayouts = [...]statusLayout{
	LittleEndian: {done: 8, enab: 9, busy: 12, fail: 13, dver: 27, err: [3]uint{23, 24, 25}},
	BigEndian:    {done: 16, enab: 17, busy: 20, fail: 21, dver: 3, err: [3]uint{15, 0, 1}},
}

// DecodeStatus decodes a raw status word held in byte order o.
func DecodeStatus(raw uint32, o ByteOrder) Status {
	l := statusLayouts[o]
	bit := func(n uint) bool { return raw&(1<<n) != 0 }

	var code ErrorCode
	for i, n := range l.err {
		if bit(n) {
			code |= 1 << i
		}
	}
	return Status{
		Raw:           raw,
		Done:          bit(l.done),
		CfgEnable:     bit(l.enab),
		Busy:          bit(l.busy),
		Fail:          bit(l.fail),
		DeviceVersion: bit(l.dver),
		Error:         code,
	}
}

// Configured reports whether the device came out of refresh with a valid
// configuration.
func (s Status) Configured() bool {
	return !s.Busy && s.Done && s.Error == NoError
}

func (s Status) String() string {
	b := fmt.Sprintf("%08x", s.Raw)
	f := []string{}
	if s.Done {
		f = append(f, "DONE")
	}
	if s.CfgEnable {
		f = append(f, "ENAB")
	}
	if s.Busy {
		f = append(f, "BUSY")
	}
	if s.Fail {
		f = append(f, "FAIL")
	}
	if s.DeviceVersion {
		f = append(f, "DVER")
	}
	if len(f) == 0 {
		return b + " " + s.Error.String()
	}
	return b + " " + strings.Join(f, ",") + " " + s.Error.String()
}

// ReadStatus reads LSC_READ_STATUS and decodes it. The raw word is assembled
// in byte order o.
func ReadStatus(t Transport, o ByteOrder) (Status, error) {
	reply, err := transfer(t, cmdReadStatus)
	if err != nil {
		return Status{}, err
	}
	return DecodeStatus(o.Word32(reply), o), nil
}
