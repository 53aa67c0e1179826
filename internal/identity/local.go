package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"neoncore/console/internal/docstore"
)

const credentialsCollection = "credentials"

// minPasswordLen matches the hosted provider's six-character floor.
const minPasswordLen = 6

type credentialRecord struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PasswordHash string `json:"passwordHash"`
}

// LocalProvider is a self-hosted identity provider keeping bcrypt-hashed
// credentials in the document store. It lets the console run without the
// hosted auth service.
type LocalProvider struct {
	notifier
	store docstore.Store
}

func NewLocalProvider(store docstore.Store) *LocalProvider {
	return &LocalProvider{store: store}
}

func (p *LocalProvider) Subscribe(fn func(*Credential)) func() {
	return p.subscribe(fn)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (Credential, error) {
	if email == "" || password == "" {
		return Credential{}, errors.New("email and password are required")
	}
	if len(password) < minPasswordLen {
		return Credential{}, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	if _, err := p.store.GetDocument(ctx, credentialsCollection, email); err == nil {
		return Credential{}, ErrEmailInUse
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return Credential{}, fmt.Errorf("check existing credential: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Credential{}, fmt.Errorf("hash password: %w", err)
	}

	record := credentialRecord{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := p.store.SetDocument(ctx, credentialsCollection, email, record); err != nil {
		return Credential{}, fmt.Errorf("save credential: %w", err)
	}

	cred := Credential{UID: record.UID, Email: record.Email}
	p.emit(&cred)
	return cred, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	var record credentialRecord
	if err := docstore.Load(ctx, p.store, credentialsCollection, email, &record); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("load credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	p.emit(&Credential{UID: record.UID, Email: record.Email, DisplayName: record.DisplayName})
	return nil
}

func (p *LocalProvider) SignOut(context.Context) error {
	p.emit(nil)
	return nil
}

// UpdateDisplayName stores the alias on the credential record and on the
// live credential. It does not re-fire the state callback; only sign-in and
// sign-out do that.
func (p *LocalProvider) UpdateDisplayName(ctx context.Context, name string) error {
	current := p.currentCredential()
	if current == nil {
		return ErrNotSignedIn
	}

	if err := p.store.UpdateDocument(ctx, credentialsCollection, current.Email, map[string]any{
		"displayName": name,
	}); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}

	p.mu.Lock()
	if p.current != nil {
		p.current.DisplayName = name
	}
	p.mu.Unlock()
	return nil
}
