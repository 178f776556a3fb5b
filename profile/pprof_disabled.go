//go:build !pprof

package profile

import "iter"

// Modes returns no mode names when built without the pprof build tag.
func Modes() iter.Seq[string] {
	return func(func(string) bool) {}
}

func start(string, string, bool) interface{ Stop() } {
	return ignore{}
}
