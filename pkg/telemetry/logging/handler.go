package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// redactingHandler scrubs credential material from every record before
// the wrapped handler sees it. Redaction lives at the handler level so
// it also covers records logged through slog.Default() once the logger
// is installed process-wide.
type redactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

func newRedactingHandler(inner slog.Handler, redactor *Redactor) slog.Handler {
	return &redactingHandler{inner: inner, redactor: redactor}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, h.redactor.RedactString(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &redactingHandler{inner: h.inner.WithAttrs(redacted), redactor: h.redactor}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

// redactAttr replaces values under credential-named keys wholesale and
// scans every other string-shaped value with the pattern set. Groups
// are walked recursively.
func (h *redactingHandler) redactAttr(a slog.Attr) slog.Attr {
	if _, sensitive := keysRedactedByName[strings.ToLower(a.Key)]; sensitive {
		return slog.String(a.Key, "***")
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.redactor.RedactString(v.String()))
	case slog.KindGroup:
		members := v.Group()
		out := make([]slog.Attr, len(members))
		for i, m := range members {
			out[i] = h.redactAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	case slog.KindAny:
		switch av := v.Any().(type) {
		case error:
			if av != nil {
				return slog.String(a.Key, h.redactor.RedactString(av.Error()))
			}
		case fmt.Stringer:
			return slog.String(a.Key, h.redactor.RedactString(av.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
