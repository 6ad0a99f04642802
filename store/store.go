// Package store provides session.Store implementations. Each keeps exactly
// one named entry holding the raw token string.
package store

import (
	"errors"

	"github.com/bizzai/go-session"
)

// ErrInvalidToken is returned by stores that cannot keep the token
// byte for byte.
var ErrInvalidToken = errors.New("token is not valid UTF-8")

// DefaultKey is the entry name the token is kept under.
const DefaultKey = "authToken"

// Option customizes a store.
type Option func(*options)

type options struct {
	key string
}

// WithKey sets the entry name.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

var (
	_ session.Store = (*Memory)(nil)
	_ session.Store = (*File)(nil)
	_ session.Store = (*Bun)(nil)
	_ session.Store = (*Redis)(nil)
)
