package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64
	W     int
	H     int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "life", Scale: 3, TPS: 60, Seed: 42}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random initial states")
	fs.IntVar(&c.W, "w", c.W, "grid width (0 uses the simulation default)")
	fs.IntVar(&c.H, "h", c.H, "grid height (0 uses the simulation default)")
}

// FactoryConfig converts the flags into the string map consumed by the
// simulation registry. Zero-valued dimensions are omitted so each factory
// keeps its own defaults.
func (c *Config) FactoryConfig() map[string]string {
	cfg := map[string]string{
		"seed": strconv.FormatInt(c.Seed, 10),
	}
	if c.W > 0 {
		cfg["w"] = strconv.Itoa(c.W)
	}
	if c.H > 0 {
		cfg["h"] = strconv.Itoa(c.H)
	}
	return cfg
}
