// The code in this package is derivative of https://gitlab.com/greyxor/slogor.
// Mount of this source code is governed by a MIT license that can be found
// at https://gitlab.com/greyxor/slogor/-/blob/main/LICENSE?ref_type=heads.

package slogpretty

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tigerwill90/apidir/internal/ansi"
)

const (
	maxBufferSize     = 16 << 10 // 16384
	initialBufferSize = 1024
	levelWidth        = len("DEBUG")
)

var _ slog.Handler = (*Handler)(nil)

var logBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, initialBufferSize)
		return &b
	},
}

var (
	DefaultHandler = New(os.Stdout, os.Stderr, slog.LevelDebug)
	timeFormat     = fmt.Sprintf("%s %s", time.DateOnly, time.TimeOnly)
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: ansi.FgMagenta,
	slog.LevelInfo:  ansi.FgGreen,
	slog.LevelWarn:  ansi.FgYellow,
	slog.LevelError: ansi.FgRed,
}

type attrStyle struct {
	color string
	// boxed values are padded with a space on each side, to read well on a background color.
	boxed bool
}

// attrStyles colors the attributes logged while building an index. The empty color of counters is replaced
// by the background color of the record level.
var attrStyles = map[string]attrStyle{
	"base":     {color: ansi.BgBlue, boxed: true},
	"source":   {color: ansi.BgBlue, boxed: true},
	"entries":  {boxed: true},
	"sources":  {boxed: true},
	"bases":    {boxed: true},
	"key":      {color: ansi.FgYellow},
	"keys":     {color: ansi.FgYellow},
	"existing": {color: ansi.FgYellow},
	"new":      {color: ansi.FgYellow},
	"reason":   {color: ansi.Faint},
	"error":    {color: ansi.FgRed},
}

// New returns a handler writing records below slog.LevelError to out, and the others to errOut.
// Writes are serialized, so out and errOut can be shared with other handlers.
func New(out, errOut io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		errOut: &lockedWriter{w: errOut},
		out:    &lockedWriter{w: out},
		level:  level,
	}
}

func freeBuf(b *[]byte) {
	if cap(*b) <= maxBufferSize {
		*b = (*b)[:0]
		logBufPool.Put(b)
	}
}

// Handler is a slog.Handler printing one colored line per record.
type Handler struct {
	errOut io.Writer
	out    io.Writer
	level  slog.Leveler
	// prefix qualifies the keys of record attributes with the open groups, e.g. "build.".
	prefix string
	// attrs are the attributes added with WithAttrs, with the prefix in effect at the time.
	attrs []groupedAttr
}

type groupedAttr struct {
	prefix string
	attr   slog.Attr
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	bufp := logBufPool.Get().(*[]byte)
	buf := *bufp

	defer func() {
		*bufp = buf
		freeBuf(bufp)
	}()

	buf = append(buf, "[APIDIR] "...)

	if !record.Time.IsZero() {
		buf = append(buf, ansi.Faint...)
		buf = append(buf, record.Time.Format(timeFormat)...)
		buf = append(buf, ansi.NormalIntensity...)
		buf = append(buf, " "...)
	}

	buf = append(buf, "| "...)
	buf = appendLevel(buf, record.Level)
	buf = append(buf, " | "...)
	buf = append(buf, record.Message...)
	buf = append(buf, " | "...)

	for _, ga := range h.attrs {
		buf = appendAttr(record.Level, buf, ga.prefix, ga.attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		buf = appendAttr(record.Level, buf, h.prefix, attr)
		return true
	})

	// Replace the latest space by an EOL.
	buf[len(buf)-1] = '\n'

	w := h.out
	if record.Level >= slog.LevelError {
		w = h.errOut
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write buffer: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	grouped := make([]groupedAttr, len(attrs))
	for i, attr := range attrs {
		grouped[i] = groupedAttr{prefix: h.prefix, attr: attr}
	}

	h2 := *h
	h2.attrs = slices.Concat(h.attrs, grouped)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// appendLevel writes the level name in its color, right padded so that messages line up.
func appendLevel(buf []byte, level slog.Level) []byte {
	name := level.String()
	if color, ok := levelColors[level]; ok {
		buf = append(buf, color...)
	}
	buf = append(buf, name...)
	buf = append(buf, ansi.Reset...)
	for i := len(name); i < levelWidth; i++ {
		buf = append(buf, ' ')
	}
	return buf
}

// appendAttr appends the attribute to the buffer, its key qualified by prefix. The attributes of a group are
// appended one by one, with the group name added to the prefix unless the group is inlined.
func appendAttr(level slog.Level, buf []byte, prefix string, attr slog.Attr) []byte {
	// Resolve the Attr's value before doing anything else.
	attr.Value = attr.Value.Resolve()

	// Ignore empty Attrs.
	if attr.Equal(slog.Attr{}) {
		return buf
	}

	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			buf = appendAttr(level, buf, prefix, a)
		}
		return buf
	}

	buf = append(buf, ansi.Faint...)
	buf = append(buf, ansi.Bold...)
	buf = append(buf, prefix...)
	buf = append(buf, attr.Key...)
	buf = append(buf, "="...)
	buf = append(buf, ansi.NormalIntensity...)

	style, ok := attrStyles[attr.Key]
	switch {
	case attr.Key == "latency":
		style.color = latencyColor(attr.Value.Duration())
	case !ok:
		style.color = ansi.FgCyan
	case style.color == "":
		style.color = levelColor(level)
	}
	buf = append(buf, style.color...)

	value := formatValue(attr.Value)
	if style.boxed {
		buf = append(buf, " "+value+" "...)
	} else {
		buf = append(buf, value...)
	}
	buf = append(buf, ansi.Reset...)
	buf = append(buf, " "...)

	return buf
}

// formatValue renders lists of strings, such as the keys of an index, with a comma between items.
func formatValue(v slog.Value) string {
	if v.Kind() == slog.KindAny {
		if items, ok := v.Any().([]string); ok {
			return "[" + strings.Join(items, ", ") + "]"
		}
	}
	return v.String()
}

type lockedWriter struct {
	w io.Writer
	sync.Mutex
}

func (w *lockedWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	n, err = w.w.Write(p)
	w.Unlock()
	return
}

func levelColor(level slog.Level) string {
	switch level {
	case slog.LevelInfo:
		return ansi.BgBlue
	case slog.LevelWarn:
		return ansi.BgYellow
	case slog.LevelError:
		return ansi.BgRed
	default:
		return ansi.BgMagenta
	}
}

// latencyColor grades the time spent building or loading an index.
func latencyColor(d time.Duration) string {
	switch {
	case d < 50*time.Millisecond:
		return ansi.FgGreen
	case d < time.Second:
		return ansi.FgYellow
	default:
		return ansi.FgRed
	}
}
