package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/mint/internal/ui/output"
	"go.trai.ch/mint/internal/ui/style"
)

// TaskKey is the attribute key rendered as a "[task]" prefix, matching the
// prefix the linear renderer puts on task output.
const TaskKey = "task"

// PrettyHandler is a slog.Handler that writes one colored line per record.
//
// Attributes are rendered as key=value pairs after the message. Groups are
// joined with dots. A top-level "task" attribute is lifted into a prefix.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	task   string
	prefix string
	attrs  []string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	task := h.task
	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	parts = append(parts, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		if h.prefix == "" && attr.Key == TaskKey {
			task = attr.Value.String()
			return true
		}
		parts = appendAttr(parts, h.prefix, attr)
		return true
	})

	if task != "" {
		b.WriteString("[" + task + "] ")
	}

	color := termenv.RGBColor(string(style.Slate))
	switch {
	case r.Level >= slog.LevelError:
		b.WriteString(style.Cross + " ")
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		b.WriteString(style.Warning + " ")
		color = termenv.RGBColor(string(style.Yellow))
	}

	b.WriteString(r.Message)
	if len(parts) > 0 {
		b.WriteString(" " + strings.Join(parts, " "))
	}

	styled := h.out.String(b.String()).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	next := h.clone()
	for _, attr := range attrs {
		if h.prefix == "" && attr.Key == TaskKey {
			next.task = attr.Value.String()
			continue
		}
		next.attrs = appendAttr(next.attrs, h.prefix, attr)
	}

	return next
}

// WithGroup returns a new Handler that qualifies later attributes with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := h.clone()
	next.prefix = h.prefix + name + "."

	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		task:   h.task,
		prefix: h.prefix,
		attrs:  append([]string(nil), h.attrs...),
	}
}

func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := prefix
		if attr.Key != "" {
			group += attr.Key + "."
		}
		for _, ga := range attr.Value.Group() {
			parts = appendAttr(parts, group, ga)
		}
		return parts
	}

	value := attr.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}

	return append(parts, prefix+attr.Key+"="+value)
}
