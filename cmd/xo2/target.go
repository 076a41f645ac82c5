package main

import (
	"fmt"
	"time"

	"github.com/gentam/xo2"
	"github.com/gentam/xo2/internal/config"
	"github.com/golang/glog"
	"periph.io/x/conn/v3/physic"
)

// simIDCode is the IDCODE reported by the sim transport (LCMXO2-1200HC).
const simIDCode = 0x012BA043

// target is an opened transport. dev is nil for the simulator.
type target struct {
	xo2.Transport
	dev *xo2.Device
}

func openTarget(c *config.Config) (*target, error) {
	clock := physic.Frequency(c.Transport.ClockHz) * physic.Hertz

	switch c.Transport.Kind {
	case config.KindSim:
		glog.Info("using simulated device")
		return &target{Transport: xo2.NewSimulator(simIDCode)}, nil
	case config.KindSPIDev:
		d, err := xo2.OpenSPIDev(c.Transport.Device, clock)
		if err != nil {
			return nil, err
		}
		glog.Infof("opened %s at %s", c.Transport.Device, clock)
		return &target{Transport: d.Transport(), dev: d}, nil
	case config.KindFTDI:
		d, err := xo2.OpenFTDI(clock)
		if err != nil {
			return nil, err
		}
		glog.Infof("opened FT2232H at %s", clock)
		return &target{Transport: d.Transport(), dev: d}, nil
	}
	return nil, fmt.Errorf("unknown transport %q", c.Transport.Kind)
}

func (t *target) Close() {
	if t.dev == nil {
		return
	}
	if err := t.dev.Close(); err != nil {
		glog.Warningf("close: %v", err)
	}
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func sequencerOptions(c *config.Config) []xo2.Option {
	return []xo2.Option{
		xo2.WithByteOrder(byteOrder(c)),
		xo2.WithBusyPolicy(xo2.RetryPolicy{
			MaxIterations: c.Busy.MaxIterations,
			PollDelay:     ms(c.Busy.PollDelayMs),
		}),
		xo2.WithRefreshPolicy(xo2.RetryPolicy{
			MaxIterations: c.Refresh.MaxIterations,
			PollDelay:     ms(c.Refresh.PollDelayMs),
		}),
		xo2.WithProgramDoneSettle(ms(*c.ProgramDoneSettleMs)),
		xo2.WithPollEachPage(*c.PollEachPage),
		xo2.WithWaitBeforeEnable(*c.WaitBeforeEnable),
	}
}
