// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"log/slog"
	"testing"
)

// NewTestLogger returns a logger that writes through t.Log, so log output is
// attached to the failing test instead of interleaving with the test runner's
// output.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(testHandler{t: t})
}

type testHandler struct {
	t     *testing.T
	attrs []slog.Attr
}

func (h testHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h testHandler) Handle(_ context.Context, r slog.Record) error {
	line := r.Level.String() + " " + r.Message
	appendAttr := func(a slog.Attr) bool {
		line += " " + a.Key + "=" + a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	h.t.Log(line)
	return nil
}

func (h testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return h
}

func (h testHandler) WithGroup(string) slog.Handler { return h }
