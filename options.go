package xo2

import "time"

// Config holds the sequencer configuration.
type Config struct {
	// Order is the layout of raw register words. Defaults to HostOrder().
	Order ByteOrder

	// BusyPolicy bounds every wait for BUSY to clear.
	BusyPolicy RetryPolicy

	// RefreshPolicy bounds the refresh loop. PollDelay is the settle time
	// after each LSC_REFRESH.
	RefreshPolicy RetryPolicy

	// ProgramDoneSettle is the pause between ISC_PROGRAMDONE and the DONE
	// check.
	ProgramDoneSettle time.Duration

	// WaitBeforeEnable waits for BUSY to clear before ISC_DISABLE.
	WaitBeforeEnable bool

	// PollEachPage waits for BUSY to clear after every page write.
	PollEachPage bool

	// Progress is called after every page write (optional).
	Progress func(page, total int)
}

// DefaultProgramDoneSettle is the default pause after ISC_PROGRAMDONE.
const DefaultProgramDoneSettle = time.Millisecond

func defaultConfig() Config {
	return Config{
		Order:             HostOrder(),
		BusyPolicy:        DefaultBusyPolicy,
		RefreshPolicy:     DefaultRefreshPolicy,
		ProgramDoneSettle: DefaultProgramDoneSettle,
		WaitBeforeEnable:  true,
		PollEachPage:      true,
	}
}

// Option is a functional option for configuring the Sequencer.
type Option func(*Config)

func WithByteOrder(o ByteOrder) Option {
	return func(c *Config) { c.Order = o }
}

func WithBusyPolicy(p RetryPolicy) Option {
	return func(c *Config) { c.BusyPolicy = p }
}

func WithRefreshPolicy(p RetryPolicy) Option {
	return func(c *Config) { c.RefreshPolicy = p }
}

func WithProgramDoneSettle(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ProgramDoneSettle = d
		}
	}
}

// WithWaitBeforeEnable enables or disables the busy wait before the
// configuration interface is enabled. Default is true.
func WithWaitBeforeEnable(wait bool) Option {
	return func(c *Config) { c.WaitBeforeEnable = wait }
}

// WithPollEachPage enables or disables the busy wait after each page.
// Default is true.
func WithPollEachPage(poll bool) Option {
	return func(c *Config) { c.PollEachPage = poll }
}

// WithProgress sets a callback reporting page progress.
//
// Example:
//
//	seq := xo2.New(t, xo2.WithProgress(func(page, total int) {
//	    fmt.Printf("\r%d/%d", page, total)
//	}))
func WithProgress(fn func(page, total int)) Option {
	return func(c *Config) { c.Progress = fn }
}
