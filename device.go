package xo2

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// Device is an opened sysCONFIG SPI port. Pins are only available on FTDI
// adapters.
type Device struct {
	FTDI *ftdi.FT232H

	port    spi.PortCloser
	spiConn spi.Conn
	spi     *SPI

	cs       gpio.PinIO // ADBUS4 SN
	initn    gpio.PinIO // ADBUS5 INITN
	done     gpio.PinIO // ADBUS6 DONE
	programn gpio.PinIO // ADBUS7 PROGRAMN

	clock physic.Frequency
}

var hostInitialized atomic.Bool

func initHost() error {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return fmt.Errorf("host initialization failed: %w", err)
		}
	}
	return nil
}

// OpenFTDI finds an FT2232H device and opens its MPSSE/SPI port.
func OpenFTDI(clock physic.Frequency) (*Device, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	d := &Device{clock: clock}
	if err := d.findFT2232H(); err != nil {
		return nil, err
	}

	// ADBUS0 | MCLK / CCLK
	// ADBUS1 | SI / SPISI
	// ADBUS2 | SO / SPISO
	// ADBUS4 | SN
	// ADBUS5 | INITN
	// ADBUS6 | DONE
	// ADBUS7 | PROGRAMN
	d.cs = d.FTDI.D4
	d.initn = d.FTDI.D5
	d.done = d.FTDI.D6
	d.programn = d.FTDI.D7

	port, err := d.FTDI.SPI()
	if err != nil {
		return nil, fmt.Errorf("failed to get SPI port: %w", err)
	}
	if err := d.connect(port); err != nil {
		return nil, err
	}
	d.spi = NewSPI(d.spiConn, d.cs)
	return d, nil
}

// OpenSPIDev opens a host SPI port by name, e.g. "/dev/spidev0.0" or "SPI0.0".
// The port drives chip select itself.
func OpenSPIDev(name string, clock physic.Frequency) (*Device, error) {
	if err := initHost(); err != nil {
		return nil, err
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", name, err)
	}
	d := &Device{clock: clock}
	if err := d.connect(port); err != nil {
		return nil, err
	}
	d.spi = NewSPI(d.spiConn, nil)
	return d, nil
}

func (d *Device) findFT2232H() error {
	const (
		vendorID  = 0x0403 // FTDI
		productID = 0x6010 // FT2232H
	)

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID || info.DevID != productID {
			continue
		}
		if ft, ok := dev.(*ftdi.FT232H); ok {
			d.FTDI = ft
			return nil
		}
	}

	return errors.New("FT2232H device not found")
}

func (d *Device) connect(port spi.PortCloser) error {
	// [FTDI AN_114|1.2]> FTDI device can only support mode 0 and mode 2 due to the limitation of MPSSE engine
	// [DS1035] the slave SPI port supports mode 0 and mode 3
	conn, err := port.Connect(d.clock, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return fmt.Errorf("SPI connection failed: %w", err)
	}
	d.port = port
	d.spiConn = conn
	return nil
}

// Transport returns the SPI transport of the device.
func (d *Device) Transport() Transport { return d.spi }

// Close releases the SPI port.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

// HasPins reports whether INITN, DONE and PROGRAMN are wired.
func (d *Device) HasPins() bool { return d.FTDI != nil }

// Pins samples INITN and DONE.
func (d *Device) Pins() (initn, done gpio.Level, err error) {
	if !d.HasPins() {
		return gpio.Low, gpio.Low, errors.New("configuration pins not available")
	}
	for _, p := range []gpio.PinIO{d.initn, d.done} {
		if err = p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return
		}
	}
	return d.initn.Read(), d.done.Read(), nil
}

// Reconfigure pulses PROGRAMN low, making the device reload its
// configuration from flash.
func (d *Device) Reconfigure() error {
	if !d.HasPins() {
		return errors.New("PROGRAMN not available")
	}
	if err := d.programn.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(time.Millisecond) // well above tPRGMRJ [DS1035]
	return d.programn.Out(gpio.High)
}
