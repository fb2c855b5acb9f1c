package sipmap

import "go.uber.org/zap"

// Option configures a Map.
type Option func(*config)

type config struct {
	seedSource SeedSource
	logger     *zap.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		seedSource: CryptoSeedSource,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSeedSource sets where New draws its hash keys from. It has no
// effect on NewWithHasher, which is handed its hasher directly.
func WithSeedSource(src SeedSource) Option {
	return func(c *config) {
		c.seedSource = src
	}
}

// WithLogger sets the logger for table growth events, logged at debug
// level. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	}
}
