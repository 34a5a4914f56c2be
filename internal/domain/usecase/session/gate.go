package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/core"
	"github.com/ledgervault/ledgervault/internal/domain/port/persistence"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
)

// State is the gate's position in the auth lifecycle
type State string

const (
	// StateUnauthenticated means no account is signed in
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticated means credentials were verified and no PIN applies
	StateAuthenticated State = "authenticated"
	// StateLocked means a resumed session is waiting for its PIN
	StateLocked State = "locked"
	// StateUnlocked means the PIN was accepted for this instance
	StateUnlocked State = "unlocked"
)

// Gate drives the per-instance auth state machine. It holds no credentials
// itself; verification is delegated to the gateway, and the gate only tracks
// which account is active and whether its PIN hurdle has been passed. The
// last-authenticated identity is persisted so a restarted instance can resume
// straight into the locked state.
type Gate struct {
	gateway store.Gateway
	blobs   persistence.BlobStore
	logger  core.Logger

	mu     sync.Mutex
	state  State
	userID uint64
}

// NewGate creates a gate in the unauthenticated state
func NewGate(gateway store.Gateway, blobs persistence.BlobStore, logger core.Logger) *Gate {
	return &Gate{
		gateway: gateway,
		blobs:   blobs,
		logger:  logger,
		state:   StateUnauthenticated,
	}
}

// State returns the current gate state
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// UserID returns the active account id, or false when no session is open
func (g *Gate) UserID() (uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateUnauthenticated {
		return 0, false
	}
	return g.userID, true
}

// SignIn verifies credentials through the gateway and opens a session.
// A configured PIN does not lock a fresh sign-in; locking only applies to
// resumed sessions.
func (g *Gate) SignIn(ctx context.Context, email, secret string) (*entity.User, error) {
	user, err := g.gateway.Authenticate(ctx, email, secret)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.state = StateAuthenticated
	g.userID = user.ID
	g.mu.Unlock()

	if err := g.blobs.Put(persistence.KeySession, []byte(strconv.FormatUint(user.ID, 10))); err != nil {
		g.logger.Warn("Failed to persist session identity", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	g.logger.Info("Session opened", map[string]any{"user_id": user.ID})
	return user, nil
}

// Register creates the account through the gateway and opens a session for it
func (g *Gate) Register(ctx context.Context, email, secret string, currency entity.Currency) (*entity.User, error) {
	if _, err := g.gateway.RegisterUser(ctx, email, secret, currency); err != nil {
		return nil, err
	}
	return g.SignIn(ctx, email, secret)
}

// Resume restores the last persisted session, if any. When the account has a
// PIN configured the gate lands in the locked state and data access must wait
// for SubmitPin; otherwise it resumes straight to authenticated.
func (g *Gate) Resume(ctx context.Context) (State, error) {
	raw, ok, err := g.blobs.Get(persistence.KeySession)
	if err != nil {
		return StateUnauthenticated, err
	}
	if !ok {
		return StateUnauthenticated, nil
	}

	userID, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		// stale or foreign value under the session key; drop it
		g.logger.Warn("Discarding unreadable session identity", map[string]any{
			"error": err.Error(),
		})
		_ = g.blobs.Delete(persistence.KeySession)
		return StateUnauthenticated, nil
	}

	user, err := g.gateway.GetUser(ctx, userID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			_ = g.blobs.Delete(persistence.KeySession)
			return StateUnauthenticated, nil
		}
		return StateUnauthenticated, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.userID = user.ID
	if user.HasPin() {
		g.state = StateLocked
	} else {
		g.state = StateAuthenticated
	}
	g.logger.Info("Session resumed", map[string]any{
		"user_id": user.ID,
		"locked":  g.state == StateLocked,
	})
	return g.state, nil
}

// SubmitPin passes the submitted PIN to the gateway. On a locked session an
// accepted PIN unlocks it; on an open session with no PIN yet this establishes
// one. A rejected PIN leaves the state unchanged.
func (g *Gate) SubmitPin(ctx context.Context, pin string) (store.PinStatus, error) {
	g.mu.Lock()
	state, userID := g.state, g.userID
	g.mu.Unlock()

	if state == StateUnauthenticated {
		return "", errs.ErrInvalidCredentials
	}

	status, err := g.gateway.VerifyOrSetPin(ctx, userID, pin)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	if g.state == StateLocked {
		g.state = StateUnlocked
	}
	g.mu.Unlock()
	return status, nil
}

// ClearPin removes the active account's PIN through the gateway
func (g *Gate) ClearPin(ctx context.Context) error {
	g.mu.Lock()
	state, userID := g.state, g.userID
	g.mu.Unlock()

	if state == StateUnauthenticated {
		return errs.ErrInvalidCredentials
	}
	return g.gateway.ClearPin(ctx, userID)
}

// SignOut closes the session from any state and forgets the persisted
// identity
func (g *Gate) SignOut() error {
	g.mu.Lock()
	userID := g.userID
	g.state = StateUnauthenticated
	g.userID = 0
	g.mu.Unlock()

	if err := g.blobs.Delete(persistence.KeySession); err != nil {
		return err
	}
	g.logger.Info("Session closed", map[string]any{"user_id": userID})
	return nil
}
