package core

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/domain"
)

// PeerInfo is what video-call discovery exposes about one call member.
type PeerInfo struct {
	PeerID string      `json:"peerId"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`
}

// PeerDirectory tracks which participants hold an active external peer id.
// The mapping itself lives on the participant records; the directory owns
// the announce/depart rules around it.
type PeerDirectory struct {
	store *SessionStore
}

func NewPeerDirectory(store *SessionStore) *PeerDirectory {
	return &PeerDirectory{store: store}
}

// Announce registers peerID for the participant and returns every other
// participant currently holding a distinct peer id. A re-announcement of the
// exact same id changes nothing and reports changed=false so the caller can
// skip the broadcast.
func (d *PeerDirectory) Announce(id domain.ParticipantID, peerID string) (others []PeerInfo, changed bool) {
	p, ok := d.store.Get(id)
	if !ok {
		return nil, false
	}
	if p.PeerID == peerID {
		log.Debug().Str("module", "core.peers").Str("id", string(id)).Str("peer", peerID).Msg("duplicate announce")
		return nil, false
	}
	// A peer id belongs to exactly one participant. An announce that names
	// an id already held by someone else is rejected outright.
	for _, other := range d.store.Snapshot() {
		if other.ID != id && other.PeerID == peerID {
			log.Warn().Str("module", "core.peers").Str("id", string(id)).Str("peer", peerID).Str("holder", string(other.ID)).Msg("peer id already registered")
			return nil, false
		}
	}
	d.store.SetPeer(id, peerID)

	for _, other := range d.store.Snapshot() {
		if other.ID == id || other.PeerID == "" {
			continue
		}
		others = append(others, PeerInfo{PeerID: other.PeerID, Name: other.Name, Role: other.Role})
	}
	log.Info().Str("module", "core.peers").Str("id", string(id)).Str("peer", peerID).Int("others", len(others)).Msg("peer announced")
	return others, true
}

// Depart clears the mapping only when peerID matches the registered one,
// so a stale leave cannot undo a reconnect that already announced a new id.
func (d *PeerDirectory) Depart(id domain.ParticipantID, peerID string) bool {
	p, ok := d.store.Get(id)
	if !ok || p.PeerID == "" || p.PeerID != peerID {
		return false
	}
	d.store.ClearPeer(id)
	log.Info().Str("module", "core.peers").Str("id", string(id)).Str("peer", peerID).Msg("peer departed")
	return true
}

// ActivePeer reports the participant's currently registered peer id, if any.
func (d *PeerDirectory) ActivePeer(id domain.ParticipantID) (string, bool) {
	p, ok := d.store.Get(id)
	if !ok || p.PeerID == "" {
		return "", false
	}
	return p.PeerID, true
}
