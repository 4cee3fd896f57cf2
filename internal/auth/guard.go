package auth

import (
	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
)

// State is the position of a Guard in its resolution lifecycle.
type State int

const (
	StateResolving State = iota
	StateDenied
	StateGranted
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "RESOLVING"
	case StateDenied:
		return "DENIED"
	case StateGranted:
		return "GRANTED"
	}
	return "UNKNOWN"
}

// Redirect names where a denied caller is sent.
type Redirect string

const (
	RedirectNone  Redirect = ""
	RedirectLogin Redirect = "/login"
	RedirectHome  Redirect = "/"
)

// Decision is the outcome of resolving a Guard.
type Decision struct {
	State    State
	Redirect Redirect
}

// Err maps a decision to the failure taxonomy. Granted and still-resolving
// decisions return nil.
func (d Decision) Err() error {
	if d.State != StateDenied {
		return nil
	}
	if d.Redirect == RedirectLogin {
		return model.ErrUnauthenticated
	}
	return model.ErrForbidden
}

// Guard gates one protected resource. It leaves StateResolving exactly once
// per credential resolution and stays put until Reset. A Guard is not safe
// for concurrent use; the HTTP layer builds one per request.
type Guard struct {
	required []model.Role
	decision Decision
}

// NewGuard returns a Guard for the given roles; none means any authenticated
// identity.
func NewGuard(required ...model.Role) *Guard {
	return &Guard{required: required}
}

// State returns the current state.
func (g *Guard) State() State {
	return g.decision.State
}

// Resolve performs the single transition out of StateResolving. Later calls
// return the stored decision unchanged.
func (g *Guard) Resolve(claims *model.Claims) Decision {
	if g.decision.State != StateResolving {
		return g.decision
	}

	switch {
	case claims == nil:
		g.decision = Decision{State: StateDenied, Redirect: RedirectLogin}
	case !CanAccess(claims, g.required...):
		g.decision = Decision{State: StateDenied, Redirect: RedirectHome}
	default:
		g.decision = Decision{State: StateGranted}
	}
	return g.decision
}

// Reset returns the guard to StateResolving, as on logout or login.
func (g *Guard) Reset() {
	g.decision = Decision{}
}
