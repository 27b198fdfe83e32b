package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

var (
	ErrAdminExists  = errors.New("admin already set")
	ErrBadAdminCode = errors.New("invalid admin code")
)

// MembershipManager orchestrates join, admin claim, leave and kick over the
// session store. It is the only component that resets the store.
type MembershipManager struct {
	Store *core.SessionStore
	Chat  *core.ChatLog
	Peers *core.PeerDirectory
}

func NewMembershipManager(store *core.SessionStore, chat *core.ChatLog, peers *core.PeerDirectory) *MembershipManager {
	return &MembershipManager{Store: store, Chat: chat, Peers: peers}
}

// JoinResult is the session snapshot handed back to the joining participant.
type JoinResult struct {
	Participant    domain.Participant
	Participants   []domain.Participant
	Chat           []domain.ChatMessage
	DrawingEnabled bool
}

// Join registers a new participant. The supplied code grants admin only when
// it matches the secret and no admin exists yet; everyone else is a student.
// An id that is already registered must go through Leave first, so the old
// membership's departure effects run before the new record lands.
func (m *MembershipManager) Join(id domain.ParticipantID, name, code string) (*JoinResult, error) {
	p, err := domain.NewParticipant(id, name)
	if err != nil {
		return nil, err
	}
	m.Store.Put(p)

	joined := *p
	if m.adminEligible(code) {
		joined, _ = m.Store.PromoteAdmin(id)
	}

	log.Info().Str("module", "app.membership").Str("id", string(id)).Str("role", string(joined.Role)).Msg("joined")
	return &JoinResult{
		Participant:    joined,
		Participants:   m.Store.Snapshot(),
		Chat:           m.Chat.Snapshot(),
		DrawingEnabled: m.Store.DrawingEnabled(),
	}, nil
}

// ClaimAdmin applies the same eligibility rule post-join.
// Failure mutates nothing.
func (m *MembershipManager) ClaimAdmin(id domain.ParticipantID, code string) (domain.Participant, error) {
	if _, has := m.Store.AdminID(); has {
		return domain.Participant{}, ErrAdminExists
	}
	if code == "" || code != m.Store.AdminSecret() {
		return domain.Participant{}, ErrBadAdminCode
	}
	p, ok := m.Store.PromoteAdmin(id)
	if !ok {
		return domain.Participant{}, ErrBadAdminCode
	}
	return p, nil
}

func (m *MembershipManager) adminEligible(code string) bool {
	if code == "" || code != m.Store.AdminSecret() {
		return false
	}
	_, has := m.Store.AdminID()
	return !has
}

// LeaveResult tells the adapter what to announce after a removal.
type LeaveResult struct {
	// Removed is nil when the participant was not in the table.
	Removed *domain.Participant
	// PeerLeft carries the peer id to announce as departed, "" when none.
	PeerLeft string
	// SessionEnded is set when the admin left and the session was reset.
	SessionEnded bool
}

// Leave removes one participant. An admin departure resets the whole
// session; an active peer link is departed first so every peer_joined is
// matched by a peer_left. Removing an absent participant is a safe no-op.
func (m *MembershipManager) Leave(id domain.ParticipantID) LeaveResult {
	p, ok := m.Store.Get(id)
	if !ok {
		return LeaveResult{}
	}
	res := LeaveResult{Removed: &p}
	if p.PeerID != "" && m.Peers.Depart(id, p.PeerID) {
		res.PeerLeft = p.PeerID
	}
	if p.IsAdmin() {
		m.Reset()
		res.SessionEnded = true
		return res
	}
	m.Store.Remove(id)
	return res
}

// Kick reports whether the requester may remove the target. The actual
// removal happens when the target's connection dies, or via Leave when no
// connection exists anymore; the adapter owns that distinction.
func (m *MembershipManager) Kick(requester, target domain.ParticipantID) bool {
	p, ok := m.Store.Get(requester)
	if !ok || !p.IsAdmin() {
		return false
	}
	log.Info().Str("module", "app.membership").Str("requester", string(requester)).Str("target", string(target)).Msg("kick authorized")
	return true
}

// Reset wipes the session: participant table, chat log, drawing toggle.
func (m *MembershipManager) Reset() {
	m.Store.Reset()
	m.Chat.Clear()
}
