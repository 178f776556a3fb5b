// Package cli contains the command line interface for axp.
//
// # Usage
//
// The default command evaluates a document from files, stdin, or the
// command line:
//
//	axp '+ 1 2'
//	axp --source doc.axp
//	echo 'name: atto' | axp fmt json
//
// # Subcommands
//
//   - eval: parse a document and evaluate it (default)
//   - fmt: reformat a document as native notation, JSON, YAML, or an
//     AST dump
//   - repl: interactive evaluator with completion and history
//   - init: write a configuration file from the current flag values
//
// # Configuration
//
// Flags may be set in a configuration file written in axp notation,
// living in the user configuration directory. The file is a top-level
// map keyed by flag name:
//
//	log-level: debug
//	log-format: text
//
// Command-line flags override configuration file values. The init
// subcommand generates this file from whatever flags are in effect.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/axp/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	axp --log-level=debug --pprof-mode=cpu '(let (n: 2) (* n n))'
//
//	# Reformat a document with a wider indent
//	axp fmt native -i 4 doc.axp
package cli
