package log

// Option applies a configuration option to config.
type Option func(config) config

// apply folds opts over cfg in order, so later options win.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
