// Package logfields centralizes canonical slog field names so log keys do not
// drift between packages.
package logfields

import "log/slog"

const (
	KeyRunID      = "run_id"
	KeyUnit       = "unit"
	KeyOutcome    = "outcome"
	KeyStatus     = "status"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyPort       = "port"
	KeyURL        = "url"
	KeyName       = "name"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Helpers return slog.Attr so callers can compose them freely.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Unit(name string) slog.Attr      { return slog.String(KeyUnit, name) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Port(p int) slog.Attr            { return slog.Int(KeyPort, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
