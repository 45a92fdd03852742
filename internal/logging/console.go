package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Attribute keys the console layout lifts out of the key=value tail.
const (
	KeyRequestID = "requestID"
	KeyDataset   = "dataset"
	KeyFormat    = "format"
)

// shortIDLen is how much of a request id the console shows.
const shortIDLen = 8

// consoleHandler writes one line per record:
//
//	2026-01-02T15:04:05Z INFO  [3f2a9c1e] units.csv Document rendered | bytes=412 cached=true
//
// The request id and the dataset/format pair come first because nearly every
// API and export line carries them. Other attributes follow in call order.
type consoleHandler struct {
	out    *syncWriter
	level  slog.Leveler
	prefix string
	attrs  []slog.Attr
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(p)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler) *consoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &consoleHandler{out: &syncWriter{w: w}, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = flatten(attrs, h.prefix, a)
		return true
	})

	var reqID, dataset, format string
	rest := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		switch a.Key {
		case KeyRequestID:
			reqID = a.Value.String()
		case KeyDataset:
			dataset = a.Value.String()
		case KeyFormat:
			format = a.Value.String()
		default:
			rest = append(rest, a)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(r.Time.UTC().Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(r.Level))
	if reqID != "" {
		if len(reqID) > shortIDLen {
			reqID = reqID[:shortIDLen]
		}
		buf.WriteString(" [" + reqID + "]")
	}
	if subject := documentSubject(dataset, format); subject != "" {
		buf.WriteString(" " + subject)
	}
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	if len(rest) > 0 {
		buf.WriteString(" |")
		for _, a := range rest {
			buf.WriteString(" " + a.Key + "=" + consoleValue(a.Value))
		}
	}
	buf.WriteByte('\n')
	return h.out.write(buf.Bytes())
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = flatten(next.attrs, h.prefix, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// flatten appends a to dst with the group prefix applied, expanding nested
// groups into dotted keys.
func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			dst = flatten(dst, p, g)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	a.Key = prefix + a.Key
	return append(dst, a)
}

// documentSubject renders "units.csv", "units" or "*.csv".
func documentSubject(dataset, format string) string {
	switch {
	case dataset != "" && format != "":
		return dataset + "." + format
	case format != "":
		return "*." + format
	default:
		return dataset
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO "
	case level < slog.LevelError:
		return "WARN "
	default:
		return "ERROR"
	}
}

// consoleValue quotes strings that would otherwise break the key=value tail.
func consoleValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		return v.String()
	}
	if s == "" || strings.ContainsAny(s, " =\"|\n\t") {
		return strconv.Quote(s)
	}
	return s
}
