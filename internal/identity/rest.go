package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RESTProvider talks to a hosted identity endpoint with the
// accounts:signInWithPassword / accounts:signUp / accounts:update shape.
// The ID token's exp claim drives an automatic credential-absent
// notification when the session expires.
type RESTProvider struct {
	notifier
	endpoint string
	apiKey   string
	client   *http.Client

	timerMu     sync.Mutex
	expiryTimer *time.Timer
}

func NewRESTProvider(endpoint, apiKey string) *RESTProvider {
	return &RESTProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type accountResponse struct {
	IDToken     string `json:"idToken"`
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type accountError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) Subscribe(fn func(*Credential)) func() {
	return p.subscribe(fn)
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) error {
	resp, err := p.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return err
	}
	p.adopt(resp)
	return nil
}

func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (Credential, error) {
	resp, err := p.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return Credential{}, err
	}
	return p.adopt(resp), nil
}

func (p *RESTProvider) SignOut(context.Context) error {
	p.stopExpiryTimer()
	p.emit(nil)
	return nil
}

func (p *RESTProvider) UpdateDisplayName(ctx context.Context, name string) error {
	current := p.currentCredential()
	if current == nil {
		return ErrNotSignedIn
	}
	if _, err := p.call(ctx, "accounts:update", map[string]any{
		"localId":     current.UID,
		"displayName": name,
	}); err != nil {
		return err
	}

	p.mu.Lock()
	if p.current != nil {
		p.current.DisplayName = name
	}
	p.mu.Unlock()
	return nil
}

func (p *RESTProvider) call(ctx context.Context, method string, payload map[string]any) (accountResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return accountResponse{}, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", p.endpoint, method, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return accountResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return accountResponse{}, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr accountError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return accountResponse{}, fmt.Errorf("identity provider: %s", apiErr.Error.Message)
		}
		return accountResponse{}, fmt.Errorf("identity provider: status %d", resp.StatusCode)
	}

	var account accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return accountResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return account, nil
}

// adopt emits the credential, then schedules the expiry-driven sign-out from
// the ID token's exp claim. An already-expired token therefore resolves to a
// sign-in immediately followed by the sign-out notification.
func (p *RESTProvider) adopt(account accountResponse) Credential {
	cred := Credential{
		UID:         account.LocalID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
	}
	p.emit(&cred)
	p.scheduleExpiry(account.IDToken)
	return cred
}

func (p *RESTProvider) scheduleExpiry(idToken string) {
	p.stopExpiryTimer()
	if idToken == "" {
		return
	}

	claims := jwt.MapClaims{}
	// The token is consumed, not trusted: only the expiry is read, and the
	// signature belongs to the provider's own key set.
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		log.Printf("identity: cannot parse id token expiry: %v", err)
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}

	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		p.emit(nil)
		return
	}

	p.timerMu.Lock()
	p.expiryTimer = time.AfterFunc(ttl, func() {
		log.Printf("identity: session token expired, signing out")
		p.emit(nil)
	})
	p.timerMu.Unlock()
}

func (p *RESTProvider) stopExpiryTimer() {
	p.timerMu.Lock()
	if p.expiryTimer != nil {
		p.expiryTimer.Stop()
		p.expiryTimer = nil
	}
	p.timerMu.Unlock()
}
