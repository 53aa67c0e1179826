// Package session owns the authentication state machine: it bridges the
// identity provider's push notifications to a local User record and resolves
// the fallback-profile repair path when the document store has no profile.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"neoncore/console/internal/docstore"
	"neoncore/console/internal/domain"
	"neoncore/console/internal/identity"
)

// Phase is the authentication phase. Exactly one is active at a time and
// every provider notification yields exactly one of the three.
type Phase int

const (
	// PhaseUnresolved is the initial state, before the first provider
	// callback has fired.
	PhaseUnresolved Phase = iota
	// PhaseAnonymous means the provider reported no credential.
	PhaseAnonymous
	// PhaseAuthenticated means a User record is held.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

const usersCollection = "users"

// FallbackName is the display alias synthesized when the provider carries
// none.
const FallbackName = "Operador"

// Snapshot is the externally visible session state. User is a copy; nil
// unless authenticated.
type Snapshot struct {
	Phase   Phase
	Loading bool
	User    *domain.User
}

type fetchResult struct {
	epoch uint64
	uid   string
	user  *domain.User
	err   error
}

// Controller subscribes once, for the lifetime of the process, to the
// identity provider and keeps the session phase consistent with it.
// Notifications are enqueued and consumed by the Run loop; nothing mutates
// session state from inside the provider callback itself.
type Controller struct {
	provider     identity.Provider
	users        docstore.Store
	fetchTimeout time.Duration

	events  chan *identity.Credential
	results chan fetchResult

	mu        sync.Mutex
	phase     Phase
	loading   bool
	user      *domain.User
	epoch     uint64
	listeners []func(Snapshot)
}

func New(provider identity.Provider, users docstore.Store) *Controller {
	return &Controller{
		provider:     provider,
		users:        users,
		fetchTimeout: 10 * time.Second,
		events:       make(chan *identity.Credential, 8),
		results:      make(chan fetchResult, 8),
	}
}

// SetFetchTimeout bounds each profile fetch. Call before Run.
func (c *Controller) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		c.fetchTimeout = d
	}
}

// OnChange registers a listener invoked from the run loop after every phase
// or User change. Register listeners before calling Run.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Run consumes provider notifications until ctx is cancelled, then releases
// the subscription so a torn-down process never acts on late callbacks.
func (c *Controller) Run(ctx context.Context) error {
	unsubscribe := c.provider.Subscribe(func(cred *identity.Credential) {
		var cp *identity.Credential
		if cred != nil {
			v := *cred
			cp = &v
		}
		select {
		case c.events <- cp:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cred := <-c.events:
			c.handleNotification(ctx, cred)
		case res := <-c.results:
			c.handleFetchResult(res)
		}
	}
}

// handleNotification starts a new session epoch. Credential-absent resolves
// immediately to Anonymous; credential-present enters the transient loading
// sub-phase and fetches the profile document off the loop.
func (c *Controller) handleNotification(ctx context.Context, cred *identity.Credential) {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch

	if cred == nil {
		c.phase = PhaseAnonymous
		c.loading = false
		c.user = nil
		c.mu.Unlock()
		c.notify()
		return
	}

	c.loading = true
	c.mu.Unlock()
	c.notify()

	go func(epoch uint64, cred identity.Credential) {
		fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()

		user, err := c.loadProfile(fetchCtx, cred)
		select {
		case c.results <- fetchResult{epoch: epoch, uid: cred.UID, user: user, err: err}:
		case <-ctx.Done():
		}
	}(epoch, *cred)
}

// loadProfile fetches users/{uid}. An existing document is adopted verbatim,
// trusting the store over any locally cached copy. A missing document is
// expected right after registration and yields the synthesized fallback.
func (c *Controller) loadProfile(ctx context.Context, cred identity.Credential) (*domain.User, error) {
	var user domain.User
	err := docstore.Load(ctx, c.users, usersCollection, cred.UID, &user)
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return fallbackProfile(cred), nil
	}
	return nil, fmt.Errorf("load profile %s: %w", cred.UID, err)
}

// fallbackProfile synthesizes the in-memory repair record. It is never
// written back to the store here; seeding the document is the registration
// flow's job.
func fallbackProfile(cred identity.Credential) *domain.User {
	name := cred.DisplayName
	if name == "" {
		name = FallbackName
	}
	return &domain.User{
		ID:           cred.UID,
		Name:         name,
		Email:        cred.Email,
		Points:       0,
		Rank:         domain.UnrankedSentinel,
		Achievements: []string{},
		ThemeColor:   domain.ThemePurple,
	}
}

// handleFetchResult applies a profile fetch. Results from a superseded epoch
// are dropped so a fetch that resolves after sign-out cannot resurrect a
// logged-out user.
func (c *Controller) handleFetchResult(res fetchResult) {
	c.mu.Lock()
	if res.epoch != c.epoch {
		c.mu.Unlock()
		log.Printf("session: dropping stale profile fetch for %s", res.uid)
		return
	}

	c.loading = false
	if res.err != nil {
		// Non-fatal: degrade to anonymous rendering instead of leaving the
		// operator on an infinite spinner.
		c.phase = PhaseAnonymous
		c.user = nil
		c.mu.Unlock()
		log.Printf("session: profile fetch failed: %v", res.err)
		c.notify()
		return
	}

	c.phase = PhaseAuthenticated
	c.user = res.user
	c.mu.Unlock()
	c.notify()
}

// Logout asks the provider to sign out. Local state is cleared only by the
// resulting credential-absent notification, never here, so nothing can race
// the callback.
func (c *Controller) Logout(ctx context.Context) error {
	return c.provider.SignOut(ctx)
}

// ApplyProfile updates the mutable profile fields of the held User. ID and
// email are identity-derived and stay untouched.
func (c *Controller) ApplyProfile(name string, theme domain.ThemeColor) (*domain.User, error) {
	c.mu.Lock()
	if c.phase != PhaseAuthenticated || c.user == nil {
		c.mu.Unlock()
		return nil, errors.New("no authenticated session")
	}
	if name != "" {
		c.user.Name = name
	}
	if theme != "" {
		c.user.ThemeColor = theme
	}
	updated := copyUser(c.user)
	c.mu.Unlock()
	c.notify()
	return updated, nil
}

// Snapshot returns the current session state with a copied User.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Phase: c.phase, Loading: c.loading, User: copyUser(c.user)}
}

// Phase returns the active authentication phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// CurrentUser returns a copy of the held User, or nil.
func (c *Controller) CurrentUser() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyUser(c.user)
}

func (c *Controller) notify() {
	snap := c.Snapshot()
	c.mu.Lock()
	listeners := make([]func(Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Achievements = append([]string(nil), u.Achievements...)
	return &cp
}
