package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type leveledSourceHandler struct {
	handler     slog.Handler
	sourceLevel map[slog.Level]bool
}

// NewLeveledSourceHandler wraps a handler so that source locations are only
// attached for the given levels. The wrapped handler must be built with
// AddSource: false; this wrapper injects the source attribute itself.
func NewLeveledSourceHandler(handler slog.Handler, levels ...slog.Level) slog.Handler {
	m := make(map[slog.Level]bool, len(levels))
	for _, l := range levels {
		m[l] = true
	}
	return &leveledSourceHandler{handler: handler, sourceLevel: m}
}

func (h *leveledSourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.sourceLevel[r.Level] {
		// Skip this frame plus the slog internals to land on the call site.
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		fs := runtime.CallersFrames(pcs[:])
		f, _ := fs.Next()

		r.AddAttrs(slog.Attr{
			Key: slog.SourceKey,
			Value: slog.AnyValue(&slog.Source{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			}),
		})
	}
	return h.handler.Handle(ctx, r)
}

func (h *leveledSourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveledSourceHandler{handler: h.handler.WithAttrs(attrs), sourceLevel: h.sourceLevel}
}

func (h *leveledSourceHandler) WithGroup(name string) slog.Handler {
	return &leveledSourceHandler{handler: h.handler.WithGroup(name), sourceLevel: h.sourceLevel}
}

func (h *leveledSourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
