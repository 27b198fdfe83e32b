package app

import (
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// PermissionGate is the policy layer: pure predicates over session and
// participant state, plus the admin-gated drawing controls. It holds no
// state of its own.
type PermissionGate struct {
	Store *core.SessionStore
}

// CanDraw: the admin always draws; students need both the global toggle and
// their personal flag.
func (g PermissionGate) CanDraw(p domain.Participant) bool {
	if p.Role == domain.RoleAdmin {
		return true
	}
	return g.Store.DrawingEnabled() && p.CanDraw
}

func (g PermissionGate) IsAdmin(id domain.ParticipantID) bool {
	p, ok := g.Store.Get(id)
	return ok && p.Role == domain.RoleAdmin
}

// SetGlobalDrawing flips the session-wide toggle. Admin only.
func (g PermissionGate) SetGlobalDrawing(requester domain.ParticipantID, enabled bool) bool {
	if !g.IsAdmin(requester) {
		return false
	}
	g.Store.SetDrawingEnabled(enabled)
	return true
}

// SetParticipantDraw flips one participant's personal flag and returns the
// updated record. Admin only; the target must exist.
func (g PermissionGate) SetParticipantDraw(requester, target domain.ParticipantID, canDraw bool) (domain.Participant, bool) {
	if !g.IsAdmin(requester) {
		return domain.Participant{}, false
	}
	return g.Store.SetCanDraw(target, canDraw)
}

// ClearCanvas authorizes a room-wide clear. No canvas buffer exists server
// side; the adapter only relays the signal.
func (g PermissionGate) ClearCanvas(requester domain.ParticipantID) bool {
	return g.IsAdmin(requester)
}
