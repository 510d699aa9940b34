package logger

import "log/slog"

// Error returns an "error" attribute, or an empty attribute for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID returns a "user_id" attribute, or an empty attribute for nil.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Action names the two-factor operation being performed (setup, enable, login...).
func Action(name string) slog.Attr {
	return slog.String("action", name)
}

func Result(outcome string) slog.Attr {
	return slog.String("result", outcome)
}

func Route(pattern string) slog.Attr {
	return slog.String("route", pattern)
}

func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
