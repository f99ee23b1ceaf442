package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared across packages.
const (
	KeyPath       = "path"
	KeyPermalink  = "permalink"
	KeyLocator    = "locator"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyStatus     = "status"
	KeyPolicy     = "policy"
	KeyCount      = "count"
	KeyError      = "error"
)

func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Permalink(p string) slog.Attr { return slog.String(KeyPermalink, p) }
func Locator(l string) slog.Attr   { return slog.String(KeyLocator, l) }
func Stage(name string) slog.Attr  { return slog.String(KeyStage, name) }
func Status(code int) slog.Attr    { return slog.Int(KeyStatus, code) }
func Policy(p string) slog.Attr    { return slog.String(KeyPolicy, p) }
func Count(n int) slog.Attr        { return slog.Int(KeyCount, n) }
func Since(start time.Time) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(time.Since(start).Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
