package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config controls a floodcheck run. It can be read from a TOML file with
// -cfg; command line flags override it.
type Config struct {
	// Keys is the number of adversarial keys inserted into each map.
	Keys int `toml:"keys"`
	// Bits is how many low digest bits every adversarial key has zeroed.
	// Tables of up to 2^Bits groups send all of them to group 0.
	Bits int `toml:"bits"`
	// Trials is the number of independently seeded maps to compare.
	Trials int `toml:"trials"`
	// FixedK0 and FixedK1 are the hash keys the attacker is assumed to know.
	FixedK0 uint64 `toml:"fixed-k0"`
	FixedK1 uint64 `toml:"fixed-k1"`
	Verbose bool   `toml:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Keys:    2000,
		Bits:    8,
		Trials:  3,
		FixedK0: 0x0706050403020100,
		FixedK1: 0x0f0e0d0c0b0a0908,
	}
}

// parseConfigFromFile starts from defaultConfig and decodes path over it.
// An empty path yields the defaults.
func parseConfigFromFile(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "decoding %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Errorf("%s: unknown keys %v", path, undecoded)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Keys <= 0:
		return errors.Errorf("keys must be positive, got %d", c.Keys)
	case c.Bits < 0 || c.Bits > 24:
		return errors.Errorf("bits must be in [0, 24], got %d", c.Bits)
	case c.Trials < 2:
		return errors.Errorf("trials must be at least 2, got %d", c.Trials)
	}
	return nil
}
