// Package view selects which screen is rendered. Selection is gated by the
// session phase and otherwise driven solely by navigation input; the domain
// model's content never triggers a transition.
package view

import (
	"errors"
	"fmt"
	"sync"

	"neoncore/console/internal/session"
)

type View string

const (
	Auth      View = "auth"
	Dashboard View = "dashboard"
	Teams     View = "teams"
	Proposals View = "proposals"
	Awards    View = "awards"
	Settings  View = "settings"
	Projects  View = "projects"
)

var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrAlreadySynced = errors.New("session already authenticated")
)

var titles = map[View]string{
	Dashboard: "Zona de Combate",
	Teams:     "Facciones",
	Proposals: "Planos Maestros",
	Awards:    "Salón de la Fama",
	Settings:  "Núcleo de Configuración",
	Projects:  "Archivos de Misión",
}

// Title returns the display title for a view, "" for Auth or unknown views.
func Title(v View) string {
	return titles[v]
}

// Router is the view finite state machine. The zero session phase keeps it
// on Auth until the first provider callback resolves.
type Router struct {
	mu      sync.Mutex
	current View
	phase   session.Phase
}

func NewRouter() *Router {
	return &Router{current: Auth, phase: session.PhaseUnresolved}
}

// Apply consumes a session snapshot. Entering Authenticated lands on the
// dashboard unconditionally, discarding whatever was selected before login;
// entering Anonymous resets to Auth. Snapshots that do not change the phase
// (profile edits, loading ticks) leave the selection alone.
func (r *Router) Apply(snap session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap.Phase == r.phase {
		return
	}
	r.phase = snap.Phase
	switch snap.Phase {
	case session.PhaseAuthenticated:
		r.current = Dashboard
	case session.PhaseAnonymous:
		r.current = Auth
	}
}

// Navigate moves to the requested view when the session phase permits it.
func (r *Router) Navigate(v View) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch v {
	case Auth:
		if r.phase == session.PhaseAuthenticated {
			return ErrAlreadySynced
		}
	case Dashboard, Teams, Proposals, Awards, Settings, Projects:
		if r.phase != session.PhaseAuthenticated {
			return ErrAuthRequired
		}
	default:
		return fmt.Errorf("unknown view %q", v)
	}

	r.current = v
	return nil
}

// Current returns the selected view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
