package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTodoID   = "todo_id"
	KeyUserID   = "user_id"
	KeyCommand  = "command"
	KeyStatus   = "status"
	KeyAttempt  = "attempt"
	KeyDriver   = "storage_driver"
	KeyAddr     = "addr"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

func TodoID(id string) slog.Attr      { return slog.String(KeyTodoID, id) }
func UserID(id string) slog.Attr      { return slog.String(KeyUserID, id) }
func Command(name string) slog.Attr   { return slog.String(KeyCommand, name) }
func Status(tag string) slog.Attr     { return slog.String(KeyStatus, tag) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Driver(name string) slog.Attr    { return slog.String(KeyDriver, name) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDuration, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
