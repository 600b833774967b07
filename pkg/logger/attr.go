package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Action records the flow action name under the key "action".
func Action(name string) slog.Attr {
	return slog.String("action", name)
}

// Outcome records a flow outcome code under the key "outcome".
func Outcome(code string) slog.Attr {
	return slog.String("outcome", code)
}

// TokenKind records a security token kind under the key "token_kind".
func TokenKind(kind string) slog.Attr {
	return slog.String("token_kind", kind)
}

// MailKind records an outbound mail kind under the key "mail_kind".
func MailKind(kind string) slog.Attr {
	return slog.String("mail_kind", kind)
}
