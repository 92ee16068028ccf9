package logging

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// ParseLevel maps a level name to a logr verbosity. info is V(0).
func ParseLevel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return 0, nil
	case "debug":
		return 1, nil
	case "trace":
		return 2, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return n, nil
}

// New returns a JSON logger writing one object per line to w.
func New(w io.Writer, level string) (logr.Logger, error) {
	v, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}
	sink := func(obj string) {
		_, _ = fmt.Fprintln(w, obj)
	}
	return funcr.NewJSON(sink, funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		Verbosity:       v,
	}), nil
}
