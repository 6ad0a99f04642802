package session

import (
	"context"
	"fmt"
	"strings"
)

// Logger is the logging surface the session package writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store persists a single token string across process restarts.
// Load reports absence with ok == false, not with an error.
type Store interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (token string, ok bool, err error)
	Clear(ctx context.Context) error
}

// Decoder turns a raw token into its claims.
type Decoder interface {
	Decode(token string) (Claims, error)
}

// IdentityAPI is the remote identity service that issues tokens.
type IdentityAPI interface {
	Register(ctx context.Context, payload Registration) (string, error)
	Login(ctx context.Context, payload Credentials) (string, error)
}

// IdentitySource exposes the identity of the current session, if any.
type IdentitySource interface {
	Identity() (*Identity, bool)
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print("[ERR] SESSION " + render(msg, args...))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Print("[WRN] SESSION " + render(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] SESSION " + render(msg, args...))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] SESSION " + render(msg, args...))
}

// render appends key/value pairs to msg. A trailing odd value is printed
// on its own.
func render(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
			continue
		}
		fmt.Fprintf(&b, " %v", args[i])
	}
	return newline(b.String())
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
