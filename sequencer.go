package xo2

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/gentam/xo2/bitstream"
)

// State is the position of the sequencer in the configuration flash
// programming flow of [TN1204].
type State uint8

const (
	Idle State = iota
	InterfaceEnabled
	Erased
	AddressInitialized
	Programming
	ProgramComplete
	Refreshing
	Verified
	Failed
)

var stateNames = [...]string{
	Idle:               "Idle",
	InterfaceEnabled:   "InterfaceEnabled",
	Erased:             "Erased",
	AddressInitialized: "AddressInitialized",
	Programming:        "Programming",
	ProgramComplete:    "ProgramComplete",
	Refreshing:         "Refreshing",
	Verified:           "Verified",
	Failed:             "Failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Sequencer drives a MachXO2 through the configuration flash programming
// flow. It must not be used concurrently, and the transport must not be
// shared while a run is in progress.
type Sequencer struct {
	t   Transport
	cfg Config

	state     State
	refreshes int
}

// New creates a Sequencer issuing commands over t.
func New(t Transport, opts ...Option) *Sequencer {
	if t == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Sequencer{t: t, cfg: cfg}
}

// State returns the state reached by the last run.
func (s *Sequencer) State() State { return s.state }

// Refreshes returns the number of LSC_REFRESH attempts of the last run.
func (s *Sequencer) Refreshes() int { return s.refreshes }

type stage struct {
	name   string
	during State // entered before run, if non-zero
	done   State
	run    func(context.Context) error
}

func (s *Sequencer) exec(ctx context.Context, stages []stage) error {
	s.state = Idle
	s.refreshes = 0
	for _, st := range stages {
		if st.during != Idle {
			s.state = st.during
		}
		glog.V(1).Infof("%s: start (%s)", st.name, s.state)
		if err := st.run(ctx); err != nil {
			s.state = Failed
			var te *TransportError
			if errors.As(err, &te) && te.Stage == "" {
				te.Stage = st.name
			}
			glog.V(1).Infof("%s: %v", st.name, err)
			return err
		}
		s.state = st.done
	}
	glog.V(1).Infof("sequence complete (%s)", s.state)
	return nil
}

// Program erases the configuration flash, writes bs page by page, and
// refreshes the device until it reports a valid configuration. The state
// reached is available from State afterwards.
func (s *Sequencer) Program(ctx context.Context, bs bitstream.Bitstream) error {
	return s.exec(ctx, []stage{
		{name: "enable", done: InterfaceEnabled, run: s.enable},
		{name: "erase", done: Erased, run: s.erase},
		{name: "init-address", done: AddressInitialized, run: s.initAddress},
		{name: "program", during: Programming, done: ProgramComplete, run: func(ctx context.Context) error {
			return s.programPages(ctx, bs)
		}},
		{name: "program-done", done: Refreshing, run: s.programDone},
		{name: "refresh", done: Verified, run: s.refresh},
	})
}

// Erase erases the configuration flash and releases the device without
// verifying the refresh.
func (s *Sequencer) Erase(ctx context.Context) error {
	return s.exec(ctx, []stage{
		{name: "enable", done: InterfaceEnabled, run: s.enable},
		{name: "erase", done: Erased, run: s.erase},
		{name: "release", done: Erased, run: s.release},
	})
}

func (s *Sequencer) status() (Status, error) {
	return ReadStatus(s.t, s.cfg.Order)
}

func (s *Sequencer) waitNotBusy(ctx context.Context, stage string) error {
	w := BusyWaiter{Transport: s.t, Order: s.cfg.Order}
	return w.Wait(ctx, stage, s.cfg.BusyPolicy)
}

// enable re-enters the configuration interface in offline mode, first
// letting any operation still in progress finish.
func (s *Sequencer) enable(ctx context.Context) error {
	if s.cfg.WaitBeforeEnable {
		if err := s.waitNotBusy(ctx, "enable"); err != nil {
			return err
		}
	}
	if _, err := transfer(s.t, cmdDisable); err != nil {
		return err
	}
	_, err := transfer(s.t, cmdEnableOffline)
	return err
}

func (s *Sequencer) erase(ctx context.Context) error {
	if _, err := transfer(s.t, cmdEraseConfig); err != nil {
		return err
	}
	if err := s.waitNotBusy(ctx, "erase"); err != nil {
		return err
	}
	st, err := s.status()
	if err != nil {
		return err
	}
	if st.Fail {
		return &ProtocolError{Kind: EraseFailed, Status: st}
	}
	return nil
}

func (s *Sequencer) initAddress(ctx context.Context) error {
	_, err := transfer(s.t, cmdInitAddress)
	return err
}

func (s *Sequencer) programPages(ctx context.Context, bs bitstream.Bitstream) error {
	for i, f := range bs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("program: %w", &PageError{Page: i, Err: err})
		}
		if _, err := transfer(s.t, programPage(f)); err != nil {
			return &PageError{Page: i, Err: err}
		}
		if s.cfg.PollEachPage {
			if err := s.waitNotBusy(ctx, "program"); err != nil {
				return &PageError{Page: i, Err: err}
			}
		}
		if s.cfg.Progress != nil {
			s.cfg.Progress(i+1, len(bs))
		}
	}
	return nil
}

func (s *Sequencer) programDone(ctx context.Context) error {
	if _, err := transfer(s.t, cmdProgramDone); err != nil {
		return err
	}
	if err := sleep(ctx, s.cfg.ProgramDoneSettle); err != nil {
		return fmt.Errorf("program-done: %w", err)
	}
	st, err := s.status()
	if err != nil {
		return err
	}
	if !st.Done {
		return &ProtocolError{Kind: DoneNotAsserted, Status: st}
	}
	return nil
}

// refresh reloads SRAM from flash until the device reports a valid
// configuration or the refresh budget runs out.
func (s *Sequencer) refresh(ctx context.Context) error {
	p := s.cfg.RefreshPolicy
	var last Status
	for p.allows(s.refreshes) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		if _, err := transfer(s.t, cmdRefresh); err != nil {
			return err
		}
		s.refreshes++
		if err := sleep(ctx, p.PollDelay); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		st, err := s.status()
		if err != nil {
			return err
		}
		glog.V(2).Infof("refresh: attempt %d: %s", s.refreshes, st)
		if st.Configured() {
			return nil
		}
		last = st
	}
	return &RefreshExhaustedError{Iterations: s.refreshes, Status: last}
}

// release finishes an erase: ISC_PROGRAMDONE, LSC_REFRESH and ISC_DISABLE
// followed by ISC_NOOP.
func (s *Sequencer) release(ctx context.Context) error {
	for _, cmd := range []Command{cmdProgramDone, cmdRefresh} {
		if _, err := transfer(s.t, cmd); err != nil {
			return err
		}
	}
	if err := sleep(ctx, s.cfg.RefreshPolicy.PollDelay); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	for _, cmd := range []Command{cmdDisable, cmdNoop} {
		if _, err := transfer(s.t, cmd); err != nil {
			return err
		}
	}
	return nil
}
