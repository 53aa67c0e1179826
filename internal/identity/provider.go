// Package identity provides the identity-provider boundary: credential
// issuance and the push-style auth state notifications the session
// controller consumes.
package identity

import (
	"context"
	"errors"
	"sync"
)

// Credential is the provider-issued identity. A nil *Credential in a
// notification means "no one is signed in".
type Credential struct {
	UID         string
	Email       string
	DisplayName string
}

var (
	// ErrInvalidCredentials covers bad email/password combinations without
	// revealing which half was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailInUse is returned by SignUp for an already registered email.
	ErrEmailInUse = errors.New("email already registered")
	// ErrNotSignedIn is returned by operations that need a live credential.
	ErrNotSignedIn = errors.New("not signed in")
)

// Provider is the external identity service. Subscribe registers a
// long-lived state-change callback and fires it once with the current state;
// the returned function releases the registration.
type Provider interface {
	Subscribe(fn func(*Credential)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) (Credential, error)
	SignOut(ctx context.Context) error
	UpdateDisplayName(ctx context.Context, name string) error
}

// notifier implements the subscription bookkeeping shared by providers.
type notifier struct {
	mu      sync.Mutex
	subs    map[int]func(*Credential)
	nextSub int
	current *Credential
}

// subscribe registers fn and immediately delivers the current state, mirror
// of the hosted provider firing its callback on attach.
func (n *notifier) subscribe(fn func(*Credential)) func() {
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[int]func(*Credential))
	}
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	current := n.current
	n.mu.Unlock()

	fn(current)

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// emit records the new state and pushes it to every subscriber.
func (n *notifier) emit(cred *Credential) {
	n.mu.Lock()
	n.current = cred
	fns := make([]func(*Credential), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(cred)
	}
}

// currentCredential returns a copy of the signed-in credential, or nil.
func (n *notifier) currentCredential() *Credential {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	c := *n.current
	return &c
}
