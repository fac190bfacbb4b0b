// Package logs builds the structured logger shared by the CLI and the engine.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options selects the logger's level and sinks.
type Options struct {
	Level   string
	Format  string // text or json
	Journal bool
}

// Level is the shared level of every logger built by New. Changing it
// affects loggers already handed out.
var Level = new(slog.LevelVar)

// ParseLevel maps debug, info, warn, and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("parsing log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a logger writing to w and, when requested, to the systemd
// journal. A journal that cannot be reached is reported on w and skipped.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	Level.Set(lvl)

	hopts := &slog.HandlerOptions{Level: Level}
	var local slog.Handler
	if opts.Format == "json" {
		local = slog.NewJSONHandler(w, hopts)
	} else {
		local = slog.NewTextHandler(w, hopts)
	}
	handlers := []slog.Handler{local}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level:        Level,
			ReplaceGroup: toJournalKey,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
			record.Add("error", err)
			_ = local.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journal)
		}
	}

	if len(handlers) == 1 {
		return slog.New(local), nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// toJournalKey converts a key to the upper-case form journal fields require.
func toJournalKey(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(s))
}
