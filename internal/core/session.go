package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/domain"
)

// SessionStore holds the single classroom session for the process lifetime:
// the participant table, the admin identity, the global drawing toggle and
// the fixed admin secret. It owns the data only; orchestration lives in app
// and broadcasting in adapters. Threadsafe so the status REST surface can
// read while the dispatcher mutates.
type SessionStore struct {
	mu             sync.RWMutex
	adminSecret    string
	adminID        domain.ParticipantID // "" means no admin
	drawingEnabled bool
	participants   map[domain.ParticipantID]*domain.Participant
}

func NewSessionStore(adminSecret string) *SessionStore {
	return &SessionStore{
		adminSecret:    adminSecret,
		drawingEnabled: true,
		participants:   make(map[domain.ParticipantID]*domain.Participant),
	}
}

func (s *SessionStore) AdminSecret() string {
	return s.adminSecret
}

// Put registers (or replaces) a participant record.
func (s *SessionStore) Put(p *domain.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.ID] = p
	log.Info().Str("module", "core.session").Str("id", string(p.ID)).Str("name", p.Name).Msg("participant added")
}

// Get returns a copy; mutations go through the store's setters.
func (s *SessionStore) Get(id domain.ParticipantID) (domain.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

// Remove deletes the participant and returns the removed record.
// Removing the admin clears the admin identity as well.
func (s *SessionStore) Remove(id domain.ParticipantID) (domain.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	delete(s.participants, id)
	if s.adminID == id {
		s.adminID = ""
	}
	log.Info().Str("module", "core.session").Str("id", string(id)).Msg("participant removed")
	return *p, true
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

func (s *SessionStore) AdminID() (domain.ParticipantID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminID, s.adminID != ""
}

// PromoteAdmin makes the participant the session admin. The caller checks
// eligibility; the store only keeps adminID and the role in lockstep.
func (s *SessionStore) PromoteAdmin(id domain.ParticipantID) (domain.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	p.Role = domain.RoleAdmin
	s.adminID = id
	log.Info().Str("module", "core.session").Str("id", string(id)).Msg("admin promoted")
	return *p, true
}

func (s *SessionStore) DrawingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drawingEnabled
}

func (s *SessionStore) SetDrawingEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawingEnabled = enabled
}

func (s *SessionStore) SetCanDraw(id domain.ParticipantID, canDraw bool) (domain.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	p.CanDraw = canDraw
	return *p, true
}

func (s *SessionStore) SetStreamActive(id domain.ParticipantID, active bool) (domain.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	p.StreamActive = active
	return *p, true
}

// SetPeer binds the external video-peer id and marks the participant in-call.
func (s *SessionStore) SetPeer(id domain.ParticipantID, peerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return false
	}
	p.PeerID = peerID
	p.InVideoCall = true
	return true
}

func (s *SessionStore) ClearPeer(id domain.ParticipantID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return false
	}
	p.PeerID = ""
	p.InVideoCall = false
	return true
}

// Snapshot returns value copies of every participant.
func (s *SessionStore) Snapshot() []domain.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, *p)
	}
	return out
}

// Reset clears the participant table and the admin identity and restores the
// drawing toggle. The admin secret survives; only a process restart changes it.
func (s *SessionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants = make(map[domain.ParticipantID]*domain.Participant)
	s.adminID = ""
	s.drawingEnabled = true
	log.Info().Str("module", "core.session").Msg("session reset")
}
