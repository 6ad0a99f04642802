package session

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ControllerOption customizes Controller construction.
type ControllerOption func(*Controller)

// WithLogger overrides the logger.
func WithLogger(logger Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDecoder overrides the token decoder.
func WithDecoder(decoder Decoder) ControllerOption {
	return func(c *Controller) {
		if decoder != nil {
			c.decoder = decoder
		}
	}
}

// WithActivitySink configures an ActivitySink for session events.
func WithActivitySink(sink ActivitySink) ControllerOption {
	return func(c *Controller) {
		c.activitySink = normalizeActivitySink(sink)
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ControllerOption {
	return func(c *Controller) {
		if clock != nil {
			c.now = clock
		}
	}
}

// Controller is the single writer of the Store and the owner of the current
// Identity. The two always change together.
type Controller struct {
	store        Store
	api          IdentityAPI
	decoder      Decoder
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time

	mu       sync.RWMutex
	state    State
	identity *Identity
}

var _ IdentitySource = (*Controller)(nil)

// NewController returns a Controller in StateUnresolved. Call Start before
// reading the identity.
func NewController(store Store, api IdentityAPI, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:        store,
		api:          api,
		decoder:      NewTokenDecoder(),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
		state:        StateUnresolved,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Start reads the store and resolves the session. A token that does not
// decode is removed from the store and the session becomes anonymous; that
// is not reported as an error. Only store I/O failures are returned.
func (c *Controller) Start(ctx context.Context) error {
	token, ok, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Error("session store load failed", "error", err)
		c.transition(ctx, StateAnonymous, nil, ActivityEventRestoreFailed, map[string]any{
			"reason": "store",
			"error":  err.Error(),
		})
		return storeError(err, "load")
	}

	if !ok || token == "" {
		c.logger.Debug("no stored session")
		c.transition(ctx, StateAnonymous, nil, "", nil)
		return nil
	}

	token = strings.TrimSpace(token)
	claims, err := c.decoder.Decode(token)
	if err != nil {
		c.logger.Error("invalid stored token, clearing session", "error", err)
		if cerr := c.store.Clear(ctx); cerr != nil {
			c.logger.Error("session store clear failed", "error", cerr)
		}
		c.transition(ctx, StateAnonymous, nil, ActivityEventRestoreFailed, map[string]any{
			"reason": "decode",
			"error":  err.Error(),
		})
		return nil
	}

	identity := NewIdentity(token, claims)
	c.warnIfNoIdentifier(identity)
	c.transition(ctx, StateAuthenticated, identity, ActivityEventRestored, nil)
	return nil
}

// SignUp registers a new account and, on success, starts a session with the
// issued token. On failure nothing changes.
func (c *Controller) SignUp(ctx context.Context, payload Registration) (*Identity, error) {
	payload = payload.WithDefaults()
	payload.Email = strings.TrimSpace(payload.Email)

	if err := payload.Validate(); err != nil {
		c.recordFailure(ctx, ActivityEventSignUpFailure, payload.Email, err)
		return nil, validationError(err)
	}

	token, err := c.api.Register(ctx, payload)
	if err != nil {
		c.logger.Error("sign up failed", "email", payload.Email, "error", err)
		c.recordFailure(ctx, ActivityEventSignUpFailure, payload.Email, err)
		return nil, err
	}

	identity, err := c.commit(ctx, token)
	if err != nil {
		c.recordFailure(ctx, ActivityEventSignUpFailure, payload.Email, err)
		return nil, err
	}

	c.transition(ctx, StateAuthenticated, identity, ActivityEventSignUpSuccess, nil)
	return identity, nil
}

// SignIn exchanges credentials for a token and starts a session with it. On
// failure the current state and the store are left as they were.
func (c *Controller) SignIn(ctx context.Context, payload Credentials) (*Identity, error) {
	payload.Email = strings.TrimSpace(payload.Email)

	if err := payload.Validate(); err != nil {
		c.recordFailure(ctx, ActivityEventSignInFailure, payload.Email, err)
		return nil, validationError(err)
	}

	token, err := c.api.Login(ctx, payload)
	if err != nil {
		c.logger.Error("sign in failed", "email", payload.Email, "error", err)
		c.recordFailure(ctx, ActivityEventSignInFailure, payload.Email, err)
		return nil, err
	}

	identity, err := c.commit(ctx, token)
	if err != nil {
		c.recordFailure(ctx, ActivityEventSignInFailure, payload.Email, err)
		return nil, err
	}

	c.transition(ctx, StateAuthenticated, identity, ActivityEventSignInSuccess, nil)
	return identity, nil
}

// SignOut clears the store and moves to StateAnonymous whatever the prior
// state. A store failure is logged and returned, the in memory session is
// dropped regardless.
func (c *Controller) SignOut(ctx context.Context) error {
	var userID string
	if identity, ok := c.Identity(); ok {
		userID = identity.UserID
	}

	err := c.store.Clear(ctx)
	if err != nil {
		c.logger.Error("session store clear failed", "error", err)
	}

	c.transition(ctx, StateAnonymous, nil, ActivityEventSignedOut, map[string]any{
		"user_id": userID,
	})

	if err != nil {
		return storeError(err, "clear")
	}
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Identity returns the current identity. The returned record is shared and
// must be treated as read only.
func (c *Controller) Identity() (*Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateAuthenticated || c.identity == nil {
		return nil, false
	}
	return c.identity, true
}

// IsAuthenticated is true when an identity is held.
func (c *Controller) IsAuthenticated() bool {
	_, ok := c.Identity()
	return ok
}

// commit decodes then persists a freshly issued token. It does not touch the
// in memory state.
func (c *Controller) commit(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	claims, err := c.decoder.Decode(token)
	if err != nil {
		c.logger.Error("issued token does not decode", "error", err)
		return nil, err
	}

	if err := c.store.Save(ctx, token); err != nil {
		c.logger.Error("session store save failed", "error", err)
		return nil, storeError(err, "save")
	}

	identity := NewIdentity(token, claims)
	c.warnIfNoIdentifier(identity)
	return identity, nil
}

func (c *Controller) transition(ctx context.Context, to State, identity *Identity, event ActivityEventType, meta map[string]any) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.identity = identity
	c.mu.Unlock()

	c.logger.Debug("session transition", "from", from.String(), "to", to.String())

	if event == "" {
		return
	}

	c.emit(ctx, ActivityEvent{
		EventType:  event,
		UserID:     identity.GetUserID(),
		From:       from,
		To:         to,
		Metadata:   meta,
		OccurredAt: c.now(),
	})
}

func (c *Controller) recordFailure(ctx context.Context, event ActivityEventType, email string, err error) {
	state := c.State()
	c.emit(ctx, ActivityEvent{
		EventType: event,
		From:      state,
		To:        state,
		Metadata: map[string]any{
			"email": email,
			"error": err.Error(),
		},
		OccurredAt: c.now(),
	})
}

func (c *Controller) emit(ctx context.Context, event ActivityEvent) {
	if err := c.activitySink.Record(ctx, event); err != nil {
		c.logger.Warn("activity sink record failed", "event", string(event.EventType), "error", err)
	}
}

func (c *Controller) warnIfNoIdentifier(identity *Identity) {
	if identity.HasIdentifier() {
		return
	}
	c.logger.Warn("token carries no identifier claim", "claims", strings.Join(IdentifierClaims, ","))
}
