package identity

import (
	"context"
	"errors"
	"testing"

	"neoncore/console/internal/docstore"
)

func newTestLocalProvider() *LocalProvider {
	return NewLocalProvider(docstore.NewMemoryStore())
}

func TestLocalSignUpEmitsCredential(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	var got *Credential
	unsubscribe := p.Subscribe(func(c *Credential) { got = c })
	defer unsubscribe()

	if got != nil {
		t.Fatalf("subscription must deliver nil before anyone signs in, got %+v", got)
	}

	cred, err := p.SignUp(ctx, "vex@neon.tech", "hunter22")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if cred.UID == "" {
		t.Fatal("SignUp must issue a uid")
	}
	if got == nil || got.UID != cred.UID || got.Email != "vex@neon.tech" {
		t.Errorf("subscriber saw %+v, want the signed-up credential", got)
	}
}

func TestLocalSignUpDuplicateEmail(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	if _, err := p.SignUp(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if _, err := p.SignUp(ctx, "vex@neon.tech", "other-password"); !errors.Is(err, ErrEmailInUse) {
		t.Errorf("expected ErrEmailInUse, got %v", err)
	}
}

func TestLocalSignUpShortPassword(t *testing.T) {
	p := newTestLocalProvider()

	if _, err := p.SignUp(context.Background(), "vex@neon.tech", "abc"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestLocalSignInWrongPassword(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	if _, err := p.SignUp(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	if err := p.SignIn(ctx, "vex@neon.tech", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if err := p.SignIn(ctx, "ghost@neon.tech", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLocalSignInAndSignOutNotify(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	if _, err := p.SignUp(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	var events []*Credential
	unsubscribe := p.Subscribe(func(c *Credential) { events = append(events, c) })
	defer unsubscribe()

	if err := p.SignIn(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	// Initial nil on attach, then signed-in, then nil again.
	if len(events) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(events))
	}
	if events[0] != nil {
		t.Errorf("first notification should be nil, got %+v", events[0])
	}
	if events[1] == nil || events[1].Email != "vex@neon.tech" {
		t.Errorf("second notification should be the credential, got %+v", events[1])
	}
	if events[2] != nil {
		t.Errorf("sign-out must notify with nil, got %+v", events[2])
	}
}

func TestLocalUpdateDisplayName(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	if _, err := p.SignUp(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	notifications := 0
	unsubscribe := p.Subscribe(func(*Credential) { notifications++ })
	defer unsubscribe()

	if err := p.UpdateDisplayName(ctx, "Operador_Vex"); err != nil {
		t.Fatalf("UpdateDisplayName failed: %v", err)
	}
	if notifications != 1 {
		t.Errorf("alias update must not re-fire the state callback, saw %d notifications", notifications)
	}

	// Alias survives the next sign-in.
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if err := p.SignIn(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if cred := p.currentCredential(); cred == nil || cred.DisplayName != "Operador_Vex" {
		t.Errorf("display name not persisted, got %+v", cred)
	}
}

func TestLocalUpdateDisplayNameSignedOut(t *testing.T) {
	p := newTestLocalProvider()

	if err := p.UpdateDisplayName(context.Background(), "Ghost"); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	cred, err := p.SignUp(ctx, "vex@neon.tech", "hunter22")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	// A subscriber attaching after sign-up sees the live credential at once.
	var got *Credential
	unsubscribe := p.Subscribe(func(c *Credential) { got = c })
	defer unsubscribe()

	if got == nil || got.UID != cred.UID {
		t.Fatalf("late subscriber saw %+v, want the live credential", got)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	p := newTestLocalProvider()
	ctx := context.Background()

	count := 0
	unsubscribe := p.Subscribe(func(*Credential) { count++ })
	unsubscribe()

	if _, err := p.SignUp(ctx, "vex@neon.tech", "hunter22"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if count != 1 {
		t.Errorf("unsubscribed callback fired %d times, want only the attach delivery", count)
	}
}
