package config

// Normalize fills defaults for unset fields.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Transport
	if t.Kind == "" {
		t.Kind = DefaultKind
	}
	if t.Kind == KindSPIDev && t.Device == "" {
		t.Device = DefaultSPIDev
	}
	if t.ClockHz == 0 {
		t.ClockHz = DefaultClockHz
	}

	if cfg.ByteOrder == "" {
		cfg.ByteOrder = OrderHost
	}

	normalizePolicy(&cfg.Busy, DefaultBusyIter, DefaultBusyDelayMs)
	normalizePolicy(&cfg.Refresh, DefaultRefreshIter, DefaultRefreshDelayMs)

	if cfg.ProgramDoneSettleMs == nil {
		v := DefaultSettleMs
		cfg.ProgramDoneSettleMs = &v
	}
	if cfg.PollEachPage == nil {
		v := true
		cfg.PollEachPage = &v
	}
	if cfg.WaitBeforeEnable == nil {
		v := true
		cfg.WaitBeforeEnable = &v
	}
}

func normalizePolicy(p *PolicyConfig, iter, delayMs int) {
	if p.MaxIterations == 0 {
		p.MaxIterations = iter
	}
	// an explicit 0 delay can't be told apart from unset
	if p.PollDelayMs == 0 {
		p.PollDelayMs = delayMs
	}
}
