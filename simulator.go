package xo2

import (
	"encoding/binary"
	"fmt"

	"github.com/gentam/xo2/bitstream"
)

// Simulator is an in-memory MachXO2 model useful for unit tests and dry runs.
// It records every command and answers register reads MSB first, like the
// device does.
type Simulator struct {
	IDCode      uint32
	Usercode    uint32
	FeatureRow  uint64
	FeatureBits uint16
	TraceID     uint64

	// EraseBusyPolls and PageBusyPolls are the number of status reads
	// reporting BUSY after an erase or a page write.
	EraseBusyPolls int
	PageBusyPolls  int

	// EraseFails makes the erase report FAIL.
	EraseFails bool

	// NoDone keeps DONE low after ISC_PROGRAMDONE.
	NoDone bool

	// RefreshFailures is the number of refreshes that fail before one
	// succeeds. Unbounded makes every refresh fail with RefreshError.
	RefreshFailures int
	RefreshError    ErrorCode

	// OnTransfer, if set, runs before every command; a non-nil error is
	// returned as the transfer error.
	OnTransfer func(cmd Command) error

	commands []Command
	pages    []bitstream.Frame

	enabled   bool
	busy      int
	done      bool
	fail      bool
	errCode   ErrorCode
	refreshes int
}

// NewSimulator constructs a simulator reporting the given IDCODE.
func NewSimulator(id uint32) *Simulator {
	return &Simulator{
		IDCode:         id,
		EraseBusyPolls: 3,
		RefreshError:   CRCErr,
	}
}

// Commands returns the commands received so far.
func (s *Simulator) Commands() []Command {
	return append([]Command(nil), s.commands...)
}

// Count returns how many commands with the given name were received.
func (s *Simulator) Count(name string) int {
	n := 0
	for _, c := range s.commands {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Pages returns the pages written since the last erase.
func (s *Simulator) Pages() bitstream.Bitstream {
	return append(bitstream.Bitstream(nil), s.pages...)
}

// Word returns the current status register value in register order.
func (s *Simulator) Word() uint32 {
	var v uint32
	set := func(n uint, b bool) {
		if b {
			v |= 1 << n
		}
	}
	set(8, s.done)
	set(9, s.enabled)
	set(12, s.busy > 0)
	set(13, s.fail)
	v |= uint32(s.errCode&7) << 23
	return v
}

func (s *Simulator) Transfer(cmd Command, replyLen int) ([]byte, error) {
	cmd.Data = append([]byte(nil), cmd.Data...)
	s.commands = append(s.commands, cmd)
	if s.OnTransfer != nil {
		if err := s.OnTransfer(cmd); err != nil {
			return nil, err
		}
	}

	reply := make([]byte, replyLen)
	switch cmd.Opcode {
	case cmdIDCode.Opcode:
		putWord(reply, uint64(s.IDCode))
	case cmdUsercode.Opcode:
		putWord(reply, uint64(s.Usercode))
	case cmdReadFeature.Opcode:
		putWord(reply, s.FeatureRow)
	case cmdReadFeatureBit.Opcode:
		putWord(reply, uint64(s.FeatureBits))
	case cmdTraceID.Opcode:
		putWord(reply, s.TraceID)
	case cmdReadStatus.Opcode:
		putWord(reply, uint64(s.Word()))
		if s.busy > 0 {
			s.busy--
		}
	case cmdEnableOffline.Opcode:
		s.enabled = true
		s.done = false
	case cmdDisable.Opcode:
		s.enabled = false
	case cmdNoop.Opcode, cmdInitAddress.Opcode:
	case cmdEraseConfig.Opcode:
		if !s.enabled {
			s.errCode = CmdErr
			break
		}
		s.pages = nil
		s.done = false
		s.fail = s.EraseFails
		s.busy = s.EraseBusyPolls
	case opProgramPage:
		if len(cmd.Data) != PageSize {
			return nil, fmt.Errorf("LSC_PROGINCRNV: %d data bytes, want %d", len(cmd.Data), PageSize)
		}
		s.pages = append(s.pages, bitstream.Frame(cmd.Data))
		s.busy = s.PageBusyPolls
	case cmdProgramDone.Opcode:
		s.done = !s.NoDone
	case cmdRefresh.Opcode:
		s.refreshes++
		s.enabled = false
		s.busy = 0
		if s.RefreshFailures != Unbounded && s.refreshes > s.RefreshFailures {
			s.done = true
			s.errCode = NoError
		} else {
			s.done = false
			s.errCode = s.RefreshError
		}
	default:
		return nil, fmt.Errorf("unsupported command %s", cmd)
	}
	return reply, nil
}

// putWord stores the low len(b) bytes of v MSB first.
func putWord(b []byte, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	copy(b, buf[8-len(b):])
}
