package xo2

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gentam/xo2/bitstream"
)

func testBitstream(n int) bitstream.Bitstream {
	bs := make(bitstream.Bitstream, n)
	for i := range bs {
		for j := range bs[i] {
			bs[i][j] = byte(i*PageSize + j)
		}
	}
	return bs
}

func fastOptions(refreshBound int) []Option {
	return []Option{
		WithBusyPolicy(RetryPolicy{MaxIterations: 100}),
		WithRefreshPolicy(RetryPolicy{MaxIterations: refreshBound}),
		WithProgramDoneSettle(0),
	}
}

func commandNames(cmds []Command) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func TestProgramVerified(t *testing.T) {
	for _, o := range []ByteOrder{LittleEndian, BigEndian} {
		t.Run(o.String(), func(t *testing.T) {
			sim := NewSimulator(0x012BA043)
			bs := testBitstream(10)

			var progress []int
			opts := append(fastOptions(1024), WithByteOrder(o), WithProgress(func(page, total int) {
				if total != len(bs) {
					t.Errorf("progress total = %d, want %d", total, len(bs))
				}
				progress = append(progress, page)
			}))
			seq := New(sim, opts...)

			if err := seq.Program(context.Background(), bs); err != nil {
				t.Fatalf("Program: %v", err)
			}
			if seq.State() != Verified {
				t.Errorf("State() = %s, want Verified", seq.State())
			}
			if seq.Refreshes() != 1 || sim.Count("LSC_REFRESH") != 1 {
				t.Errorf("refreshes = %d (sim %d), want 1", seq.Refreshes(), sim.Count("LSC_REFRESH"))
			}
			if got := sim.Pages(); !slices.Equal(got, bs) {
				t.Errorf("pages written = %v, want %v", got, bs)
			}
			if len(progress) != len(bs) || progress[len(progress)-1] != len(bs) {
				t.Errorf("progress = %v", progress)
			}
		})
	}
}

func TestProgramCommandOrder(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.EraseBusyPolls = 2
	seq := New(sim, append(fastOptions(4), WithPollEachPage(false))...)

	if err := seq.Program(context.Background(), testBitstream(2)); err != nil {
		t.Fatalf("Program: %v", err)
	}

	want := []string{
		"LSC_READ_STATUS", // idle before enable
		"ISC_DISABLE", "ISC_ENABLE",
		"ISC_ERASE",
		"LSC_READ_STATUS", "LSC_READ_STATUS", "LSC_READ_STATUS", // busy, busy, ready
		"LSC_READ_STATUS", // FAIL check
		"LSC_INITADDRESS",
		"LSC_PROGINCRNV", "LSC_PROGINCRNV",
		"ISC_PROGRAMDONE", "LSC_READ_STATUS",
		"LSC_REFRESH", "LSC_READ_STATUS",
	}
	if got := commandNames(sim.Commands()); !slices.Equal(got, want) {
		t.Errorf("commands =\n%v\nwant\n%v", got, want)
	}

	first := sim.Commands()[9]
	if want := append([]byte{0x70, 0x00, 0x00, 0x01}, testBitstream(1)[0][:]...); !slices.Equal(first.Bytes(), want) {
		t.Errorf("page command bytes = % X, want % X", first.Bytes(), want)
	}
}

func TestProgramWaitsBeforeEnable(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.busy = 2 // left over from an earlier operation
	seq := New(sim, fastOptions(4)...)

	if err := seq.Program(context.Background(), testBitstream(1)); err != nil {
		t.Fatalf("Program: %v", err)
	}
	want := []string{"LSC_READ_STATUS", "LSC_READ_STATUS", "LSC_READ_STATUS", "ISC_DISABLE", "ISC_ENABLE"}
	if got := commandNames(sim.Commands())[:len(want)]; !slices.Equal(got, want) {
		t.Errorf("commands = %v, want prefix %v", got, want)
	}
}

func TestProgramNoWaitBeforeEnable(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	seq := New(sim, append(fastOptions(4), WithWaitBeforeEnable(false))...)

	if err := seq.Program(context.Background(), testBitstream(1)); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if first := sim.Commands()[0].Name; first != "ISC_DISABLE" {
		t.Errorf("first command = %s, want ISC_DISABLE", first)
	}
}

func TestProgramEnableTimeout(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.busy = 50
	seq := New(sim,
		WithBusyPolicy(RetryPolicy{MaxIterations: 5}),
		WithRefreshPolicy(RetryPolicy{MaxIterations: 1}),
		WithProgramDoneSettle(0),
	)

	err := seq.Program(context.Background(), testBitstream(1))
	var te *TimeoutError
	if !errors.As(err, &te) || te.Stage != "enable" || te.Iterations != 5 {
		t.Fatalf("err = %v, want TimeoutError{enable, 5}", err)
	}
	if n := sim.Count("ISC_DISABLE"); n != 0 {
		t.Errorf("ISC_DISABLE issued %d times while busy", n)
	}
	if seq.State() != Failed {
		t.Errorf("State() = %s, want Failed", seq.State())
	}
}

func TestDefaultConfig(t *testing.T) {
	c := defaultConfig()
	if c.ProgramDoneSettle != DefaultProgramDoneSettle {
		t.Errorf("ProgramDoneSettle = %v, want %v", c.ProgramDoneSettle, DefaultProgramDoneSettle)
	}
	if !c.WaitBeforeEnable || !c.PollEachPage {
		t.Errorf("WaitBeforeEnable = %v, PollEachPage = %v, want both true", c.WaitBeforeEnable, c.PollEachPage)
	}
}

func TestProgramEraseFailed(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.EraseFails = true
	seq := New(sim, fastOptions(1024)...)

	err := seq.Program(context.Background(), testBitstream(4))
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Kind != EraseFailed {
		t.Fatalf("err = %v, want ProtocolError{EraseFailed}", err)
	}
	if seq.State() != Failed {
		t.Errorf("State() = %s, want Failed", seq.State())
	}
	for _, name := range []string{"LSC_INITADDRESS", "LSC_PROGINCRNV", "ISC_PROGRAMDONE", "LSC_REFRESH"} {
		if n := sim.Count(name); n != 0 {
			t.Errorf("%s issued %d times after failed erase", name, n)
		}
	}
}

func TestProgramDoneNotAsserted(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.NoDone = true
	seq := New(sim, fastOptions(1024)...)

	err := seq.Program(context.Background(), testBitstream(1))
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Kind != DoneNotAsserted {
		t.Fatalf("err = %v, want ProtocolError{DoneNotAsserted}", err)
	}
	if n := sim.Count("LSC_REFRESH"); n != 0 {
		t.Errorf("LSC_REFRESH issued %d times", n)
	}
}

func TestProgramRefreshExhausted(t *testing.T) {
	const bound = 8
	sim := NewSimulator(0x012BA043)
	sim.RefreshFailures = Unbounded
	seq := New(sim, fastOptions(bound)...)

	err := seq.Program(context.Background(), testBitstream(3))
	var re *RefreshExhaustedError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RefreshExhaustedError", err)
	}
	if re.Iterations != bound {
		t.Errorf("Iterations = %d, want %d", re.Iterations, bound)
	}
	if re.Status.Error != CRCErr {
		t.Errorf("last status error = %s, want CRC ERR", re.Status.Error)
	}
	if n := sim.Count("LSC_REFRESH"); n != bound {
		t.Errorf("LSC_REFRESH issued %d times, want %d", n, bound)
	}
	if seq.State() != Failed {
		t.Errorf("State() = %s, want Failed", seq.State())
	}
}

func TestProgramRefreshRetries(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.RefreshFailures = 3
	seq := New(sim, fastOptions(8)...)

	if err := seq.Program(context.Background(), testBitstream(1)); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if seq.Refreshes() != 4 {
		t.Errorf("Refreshes() = %d, want 4", seq.Refreshes())
	}
}

func TestProgramEraseTimeout(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.EraseBusyPolls = 50
	seq := New(sim,
		WithBusyPolicy(RetryPolicy{MaxIterations: 10}),
		WithRefreshPolicy(RetryPolicy{MaxIterations: 1}),
		WithProgramDoneSettle(0),
	)

	err := seq.Program(context.Background(), testBitstream(1))
	var te *TimeoutError
	if !errors.As(err, &te) || te.Stage != "erase" || te.Iterations != 10 {
		t.Fatalf("err = %v, want TimeoutError{erase, 10}", err)
	}
}

func TestProgramPageBusyTimeout(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.EraseBusyPolls = 0
	sim.PageBusyPolls = 50
	seq := New(sim,
		WithBusyPolicy(RetryPolicy{MaxIterations: 10}),
		WithRefreshPolicy(RetryPolicy{MaxIterations: 1}),
		WithProgramDoneSettle(0),
	)

	err := seq.Program(context.Background(), testBitstream(3))
	var pe *PageError
	if !errors.As(err, &pe) || pe.Page != 0 {
		t.Fatalf("err = %v, want PageError{0}", err)
	}
	var te *TimeoutError
	if !errors.As(err, &te) || te.Stage != "program" {
		t.Errorf("err = %v, want wrapped TimeoutError{program}", err)
	}
	if n := sim.Count("LSC_PROGINCRNV"); n != 1 {
		t.Errorf("LSC_PROGINCRNV issued %d times, want 1", n)
	}
}

func TestProgramTransportError(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	errBus := errors.New("spi: transfer failed")
	pages := 0
	sim.OnTransfer = func(cmd Command) error {
		if cmd.Name == "LSC_PROGINCRNV" {
			pages++
			if pages == 4 {
				return errBus
			}
		}
		return nil
	}
	seq := New(sim, fastOptions(1)...)

	err := seq.Program(context.Background(), testBitstream(6))
	var pe *PageError
	if !errors.As(err, &pe) || pe.Page != 3 {
		t.Fatalf("err = %v, want PageError{3}", err)
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want wrapped TransportError", err)
	}
	if te.Stage != "program" || te.Command != "LSC_PROGINCRNV" || !errors.Is(err, errBus) {
		t.Errorf("TransportError = %+v", te)
	}
	if seq.State() != Failed {
		t.Errorf("State() = %s, want Failed", seq.State())
	}
}

func TestProgramEnableTransportError(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.OnTransfer = func(cmd Command) error {
		if cmd.Name == "ISC_ENABLE" {
			return errors.New("nack")
		}
		return nil
	}
	seq := New(sim, fastOptions(1)...)

	err := seq.Program(context.Background(), testBitstream(1))
	var te *TransportError
	if !errors.As(err, &te) || te.Stage != "enable" {
		t.Fatalf("err = %v, want TransportError{enable}", err)
	}
	if n := sim.Count("ISC_ERASE"); n != 0 {
		t.Errorf("ISC_ERASE issued %d times", n)
	}
}

func TestProgramCancelled(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	sim.RefreshFailures = Unbounded

	ctx, cancel := context.WithCancel(context.Background())
	sim.OnTransfer = func(cmd Command) error {
		if cmd.Name == "LSC_REFRESH" && sim.Count("LSC_REFRESH") == 5 {
			cancel()
		}
		return nil
	}
	seq := New(sim, fastOptions(Unbounded)...)

	err := seq.Program(ctx, testBitstream(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if seq.Refreshes() != 5 {
		t.Errorf("Refreshes() = %d, want 5", seq.Refreshes())
	}
}

func TestProgramEmptyBitstream(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	seq := New(sim, fastOptions(4)...)

	if err := seq.Program(context.Background(), nil); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if n := sim.Count("LSC_PROGINCRNV"); n != 0 {
		t.Errorf("LSC_PROGINCRNV issued %d times", n)
	}
}

func TestErase(t *testing.T) {
	sim := NewSimulator(0x012BA043)
	seq := New(sim, fastOptions(1)...)

	if err := seq.Erase(context.Background()); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if seq.State() != Erased {
		t.Errorf("State() = %s, want Erased", seq.State())
	}
	cmds := commandNames(sim.Commands())
	tail := []string{"ISC_PROGRAMDONE", "LSC_REFRESH", "ISC_DISABLE", "ISC_NOOP"}
	if !slices.Equal(cmds[len(cmds)-len(tail):], tail) {
		t.Errorf("commands = %v, want suffix %v", cmds, tail)
	}
	if n := sim.Count("LSC_PROGINCRNV"); n != 0 {
		t.Errorf("LSC_PROGINCRNV issued %d times", n)
	}
}

func TestNewNilTransport(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(nil) did not panic")
		}
	}()
	New(nil)
}

func TestStateString(t *testing.T) {
	if got := Refreshing.String(); got != "Refreshing" {
		t.Errorf("Refreshing.String() = %q", got)
	}
	if got := State(42).String(); got != "State(42)" {
		t.Errorf("State(42).String() = %q", got)
	}
}
