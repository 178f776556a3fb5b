//go:build pprof

package profile

import (
	"iter"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// modes maps flag spellings to pkg/profile selectors. The "quiet"
// entry only suppresses the profiler's start and stop messages, so it
// is not offered as a selectable mode.
var modes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
	"quiet":     profile.Quiet,
}

// Modes returns the selectable profiling mode names, unordered, when
// built with the pprof build tag.
func Modes() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range modes {
			if name == "quiet" {
				continue
			}

			if !yield(name) {
				return
			}
		}
	}
}

func start(mode, path string, quiet bool) interface{ Stop() } {
	selector, ok := modes[mode]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){selector}

	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
