package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/nalply/axp/lang"
	"github.com/nalply/axp/log"
	"github.com/nalply/axp/pkg"
	"github.com/nalply/axp/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	doc := i.buildDocument(ctx)

	err = lang.FormatIndent(file, doc, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildDocument constructs the config document from current flag values.
// The document is a top-level map keyed by flag name, which is the form
// the configuration resolver reads back in.
func (i *Init) buildDocument(ctx context.Context) *lang.Value {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ktx := kongContextFrom(ctx)

	var entries []lang.Entry

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := i.flagValue(ctx, flag.Name)
		if val != nil {
			entries = append(entries, lang.Entry{
				Key:   lang.Bare(flag.Name),
				Value: val,
			})
		}
	}

	return lang.NewMap(entries...)
}

// flagValue returns the document value for a CLI flag, or nil if unset.
func (i *Init) flagValue(ctx context.Context, name string) *lang.Value {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ktx := kongContextFrom(ctx)

	idx := slices.IndexFunc(ktx.Model.Flags, func(flag *kong.Flag) bool {
		return flag.Name == name
	})
	if idx == -1 {
		return nil
	}

	val := ktx.FlagValue(ktx.Model.Flags[idx])
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool:
		return lang.Bare(strconv.FormatBool(v))

	case string:
		if v == "" {
			return nil
		}

		return atomValue(v)

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return lang.Bare(fmt.Sprint(v))

	case float32, float64:
		return lang.Bare(fmt.Sprint(v))

	case []string:
		return listValue(atomValue, v)

	case []int:
		return listValue(func(n int) *lang.Value {
			return lang.Bare(strconv.Itoa(n))
		}, v)

	case []int64:
		return listValue(func(n int64) *lang.Value {
			return lang.Bare(strconv.FormatInt(n, 10))
		}, v)

	case []float64:
		return listValue(func(n float64) *lang.Value {
			return lang.Bare(fmt.Sprint(n))
		}, v)

	case []bool:
		return listValue(func(b bool) *lang.Value {
			return lang.Bare(strconv.FormatBool(b))
		}, v)

	default:
		return atomValue(fmt.Sprint(v))
	}
}

// listValue converts a flag's slice value to a list, or nil when the
// slice is empty so the entry is omitted entirely.
func listValue[T any](cast pkg.TypeCast[T, *lang.Value], v []T) *lang.Value {
	if len(v) == 0 {
		return nil
	}

	items := make([]*lang.Value, 0, len(v))

	for item := range cast.Values(v...) {
		items = append(items, item)
	}

	return lang.NewList(items...)
}

// atomValue renders a flag value as a bare atom when the text allows
// it, falling back to a quoted atom otherwise. The formatter makes the
// same call again on output, so a bare request never emits invalid
// notation.
func atomValue(s string) *lang.Value {
	if s == "" || lang.Bare(s).String() != s {
		return lang.Quoted(s)
	}

	return lang.Bare(s)
}
