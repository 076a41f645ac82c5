package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It does NOT mutate configuration; zero values mean "use the default".
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	switch cfg.Transport.Kind {
	case "", KindSPIDev, KindFTDI, KindSim:
	default:
		return fmt.Errorf("transport.kind %q: want %s, %s or %s",
			cfg.Transport.Kind, KindSPIDev, KindFTDI, KindSim)
	}

	if cfg.Transport.ClockHz < 0 {
		return fmt.Errorf("transport.clock_hz must be positive, got %d", cfg.Transport.ClockHz)
	}

	switch cfg.ByteOrder {
	case "", OrderHost, OrderLittle, OrderBig:
	default:
		return fmt.Errorf("byte_order %q: want %s, %s or %s",
			cfg.ByteOrder, OrderHost, OrderLittle, OrderBig)
	}

	for name, p := range map[string]PolicyConfig{"busy": cfg.Busy, "refresh": cfg.Refresh} {
		if p.MaxIterations < -1 {
			return fmt.Errorf("%s.max_iterations must be -1 (unbounded) or positive, got %d",
				name, p.MaxIterations)
		}
		if p.PollDelayMs < 0 {
			return fmt.Errorf("%s.poll_delay_ms must not be negative, got %d", name, p.PollDelayMs)
		}
	}

	if cfg.ProgramDoneSettleMs != nil && *cfg.ProgramDoneSettleMs < 0 {
		return fmt.Errorf("program_done_settle_ms must not be negative, got %d", *cfg.ProgramDoneSettleMs)
	}

	return nil
}
