package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

func (ctl *Controller) handlePeerReady(sender domain.Participant, data []byte) {
	type peerPayload struct {
		Type   string `json:"type"`
		PeerID string `json:"peerId"`
	}
	var p peerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad peer_ready payload")
		return
	}
	if p.PeerID == "" {
		return
	}

	others, changed := ctl.Peers.Announce(sender.ID, p.PeerID)
	if others == nil {
		others = []core.PeerInfo{}
	}
	// A duplicate re-announcement answers with an empty list and triggers
	// no peer_joined.
	ctl.sendTo(sender.ID, struct {
		Type  string          `json:"type"`
		Peers []core.PeerInfo `json:"peers"`
	}{
		Type:  "peers_in_room",
		Peers: others,
	})
	if !changed {
		return
	}

	ctl.broadcastExcept(sender.ID, struct {
		Type   string      `json:"type"`
		PeerID string      `json:"peerId"`
		Name   string      `json:"name"`
		Role   domain.Role `json:"role"`
	}{
		Type:   "peer_joined",
		PeerID: p.PeerID,
		Name:   sender.Name,
		Role:   sender.Role,
	})
}

func (ctl *Controller) handlePeerLeft(sender domain.Participant, data []byte) {
	type peerPayload struct {
		Type   string `json:"type"`
		PeerID string `json:"peerId"`
	}
	var p peerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad peer_left payload")
		return
	}
	if !ctl.Peers.Depart(sender.ID, p.PeerID) {
		// Stale leave racing a reconnect that already registered a new id.
		return
	}
	ctl.broadcastExcept(sender.ID, struct {
		Type   string `json:"type"`
		PeerID string `json:"peerId"`
	}{
		Type:   "peer_left",
		PeerID: p.PeerID,
	})
}
