package xo2

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// Transport sends a command and returns exactly replyLen bytes shifted out by
// the device afterwards. Calls are synchronous.
type Transport interface {
	Transfer(cmd Command, replyLen int) ([]byte, error)
}

// transfer runs cmd on t and checks the reply length.
func transfer(t Transport, cmd Command) ([]byte, error) {
	reply, err := t.Transfer(cmd, cmd.ReplyLen)
	if err != nil {
		return nil, &TransportError{Command: cmd.String(), Err: err}
	}
	if len(reply) != cmd.ReplyLen {
		return nil, &TransportError{
			Command: cmd.String(),
			Err:     fmt.Errorf("short reply: got %d bytes, want %d", len(reply), cmd.ReplyLen),
		}
	}
	return reply, nil
}

// SPI is a Transport over a periph SPI connection. cs is optional; when set
// it is driven low for the duration of each command, otherwise the port's
// own chip select is used.
type SPI struct {
	conn spi.Conn
	cs   gpio.PinOut
}

func NewSPI(conn spi.Conn, cs gpio.PinOut) *SPI {
	return &SPI{conn: conn, cs: cs}
}

// tx wraps SPI transaction with CS assertion.
func (s *SPI) tx(buf []byte) (err error) {
	if s.cs == nil {
		return s.conn.Tx(buf, buf)
	}
	if err = s.cs.Out(gpio.Low); err != nil {
		return err
	}
	defer func() {
		if csErr := s.cs.Out(gpio.High); csErr != nil && err == nil {
			err = csErr
		}
	}()
	err = s.conn.Tx(buf, buf)
	return
}

// Transfer shifts the command and replyLen dummy bytes in one full-duplex
// transaction. The reply follows the command bytes.
func (s *SPI) Transfer(cmd Command, replyLen int) ([]byte, error) {
	w := cmd.Bytes()
	buf := make([]byte, len(w)+replyLen)
	copy(buf, w)
	if err := s.tx(buf); err != nil {
		return nil, err
	}
	return buf[len(w):], nil
}
