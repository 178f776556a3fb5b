package profile

// Config functions return all supported pprof configuration parameters.
type Config func() (mode, path string, quiet bool)

// Start initializes the profiler and returns an interface for stopping it.
//
// Mode selects the profiler mode, and path selects the output directory
// for profiling data.
//
// Without the pprof build tag, or with an empty mode, Start returns a
// no-op implementation. Both Start and Stop are always safely callable.
func (c Config) Start() interface{ Stop() } {
	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// amend returns a Config with one parameter rewritten by f.
func amend(c Config, f func(mode, path string, quiet bool) (string, string, bool)) Config {
	mode, path, quiet := f(c())

	return func() (string, string, bool) {
		return mode, path, quiet
	}
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		return amend(c, func(_, path string, quiet bool) (string, string, bool) {
			return mode, path, quiet
		})
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		return amend(c, func(mode, _ string, quiet bool) (string, string, bool) {
			return mode, path, quiet
		})
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		return amend(c, func(mode, path string, _ bool) (string, string, bool) {
			return mode, path, quiet
		})
	}
}

type ignore struct{}

func (ignore) Stop() {}
