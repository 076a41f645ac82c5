// Package config holds the YAML programming profile of the xo2 tool.
package config

type Config struct {
	Transport TransportConfig `yaml:"transport"`

	// ByteOrder is the raw status word layout: host, little or big.
	ByteOrder string `yaml:"byte_order"`

	Busy    PolicyConfig `yaml:"busy"`
	Refresh PolicyConfig `yaml:"refresh"`

	ProgramDoneSettleMs *int  `yaml:"program_done_settle_ms"` // optional
	PollEachPage        *bool `yaml:"poll_each_page"`         // optional, default true
	WaitBeforeEnable    *bool `yaml:"wait_before_enable"`     // optional, default true
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Kind    string `yaml:"kind"`     // spidev, ftdi or sim
	Device  string `yaml:"device"`   // spidev port name, e.g. /dev/spidev0.0
	ClockHz int64  `yaml:"clock_hz"` // SPI clock
}

// ---- RETRY ----

type PolicyConfig struct {
	// MaxIterations bounds the number of reads; -1 is unbounded, 0 takes
	// the default.
	MaxIterations int `yaml:"max_iterations"`
	PollDelayMs   int `yaml:"poll_delay_ms"`
}

const (
	KindSPIDev = "spidev"
	KindFTDI   = "ftdi"
	KindSim    = "sim"
)

const (
	OrderHost   = "host"
	OrderLittle = "little"
	OrderBig    = "big"
)

const (
	DefaultKind           = KindFTDI
	DefaultSPIDev         = "/dev/spidev0.0"
	DefaultClockHz        = 1_000_000
	DefaultBusyIter       = 20000
	DefaultBusyDelayMs    = 1
	DefaultRefreshIter    = 1024
	DefaultRefreshDelayMs = 5
	DefaultSettleMs       = 1
)

// Default returns a normalized configuration with no file applied.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}
