package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

func (ctl *Controller) handleJoinRoom(sid domain.ParticipantID, data []byte) {
	type joinPayload struct {
		Type      string `json:"type"`
		Name      string `json:"name"`
		AdminCode string `json:"adminCode"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendTo(sid, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	// A join from an id that is already registered replaces the old
	// membership. Validate the new name first so a malformed payload tears
	// nothing down, then run the normal leave broadcasts: survivors see
	// user_left (or session_ended when the admin rejoins) before the fresh
	// membership appears.
	if _, ok := ctl.Membership.Store.Get(sid); ok {
		if _, err := domain.NewParticipant(sid, p.Name); err != nil {
			ctl.sendTo(sid, map[string]any{
				"type":  "error",
				"error": err.Error(),
			})
			return
		}
		ctl.removeParticipant(sid)
	}

	res, err := ctl.Membership.Join(sid, p.Name, p.AdminCode)
	if err != nil {
		ctl.sendTo(sid, map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("role", string(res.Participant.Role)).Msg("join_room")
	ctl.sendTo(sid, struct {
		Type           string               `json:"type"`
		Role           domain.Role          `json:"role"`
		Participants   []domain.Participant `json:"participants"`
		Chat           []domain.ChatMessage `json:"chat"`
		DrawingEnabled bool                 `json:"drawingEnabled"`
	}{
		Type:           "join_success",
		Role:           res.Participant.Role,
		Participants:   res.Participants,
		Chat:           res.Chat,
		DrawingEnabled: res.DrawingEnabled,
	})

	ctl.broadcastExcept(sid, struct {
		Type string             `json:"type"`
		User domain.Participant `json:"user"`
	}{
		Type: "user_joined",
		User: res.Participant,
	})
}

func (ctl *Controller) handleSetAdmin(sender domain.Participant, data []byte) {
	type claimPayload struct {
		Type      string `json:"type"`
		AdminCode string `json:"adminCode"`
	}
	var p claimPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad set_admin payload")
		return
	}

	promoted, err := ctl.Membership.ClaimAdmin(sender.ID, p.AdminCode)
	if err != nil {
		ctl.sendTo(sender.ID, struct {
			Type    string `json:"type"`
			Granted bool   `json:"granted"`
			Error   string `json:"error"`
		}{
			Type:  "admin_set",
			Error: err.Error(),
		})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sender.ID)).Msg("admin claimed")
	ctl.sendTo(sender.ID, struct {
		Type    string `json:"type"`
		Granted bool   `json:"granted"`
	}{
		Type:    "admin_set",
		Granted: true,
	})
	ctl.broadcastExcept(sender.ID, struct {
		Type string             `json:"type"`
		User domain.Participant `json:"user"`
	}{
		Type: "new_admin",
		User: promoted,
	})
}

func (ctl *Controller) handleLeaveSession(sender domain.Participant) {
	log.Info().Str("module", "signal").Str("sid", string(sender.ID)).Msg("leave_session")
	ctl.removeParticipant(sender.ID)
}

func (ctl *Controller) handleDisconnect(sid domain.ParticipantID, conn core.SignalConnection) {
	// A disconnect carries the connection it came from. When a participant
	// reconnects, the superseded socket's read loop still posts a disconnect;
	// matching against the current binding keeps it from tearing down the
	// live membership.
	if cur, ok := ctl.Members.Conn(sid); ok && conn != nil && cur != conn {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("stale disconnect ignored")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("disconnect")
	ctl.removeParticipant(sid)
	ctl.Members.Unbind(sid)
}

func (ctl *Controller) handleForceDisconnect(sid domain.ParticipantID, conn core.SignalConnection) {
	cur, ok := ctl.Members.Conn(sid)
	if !ok || (conn != nil && cur != conn) {
		return
	}
	ctl.Members.Cancel(sid)
}

// removeParticipant applies leave semantics and issues the matching
// broadcasts. The audience is captured first: an admin departure resets the
// table, and session_ended still has to reach everyone who was in it.
func (ctl *Controller) removeParticipant(id domain.ParticipantID) {
	audience := ctl.audience()
	res := ctl.Membership.Leave(id)
	if res.Removed == nil {
		return
	}

	if ctl.Limiter != nil {
		if res.SessionEnded {
			ctl.Limiter.Reset()
		} else {
			ctl.Limiter.Forget(id)
		}
	}

	if res.PeerLeft != "" {
		ctl.emitTo(exclude(audience, id), struct {
			Type   string `json:"type"`
			PeerID string `json:"peerId"`
		}{
			Type:   "peer_left",
			PeerID: res.PeerLeft,
		})
	}

	if res.SessionEnded {
		ctl.emitTo(audience, struct {
			Type string `json:"type"`
		}{Type: "session_ended"})
		return
	}

	ctl.emitTo(exclude(audience, id), struct {
		Type string               `json:"type"`
		ID   domain.ParticipantID `json:"id"`
		Name string               `json:"name"`
	}{
		Type: "user_left",
		ID:   id,
		Name: res.Removed.Name,
	})
}

func (ctl *Controller) handleKickUser(sender domain.Participant, data []byte) {
	type kickPayload struct {
		Type         string               `json:"type"`
		TargetUserID domain.ParticipantID `json:"targetUserId"`
	}
	var p kickPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad kick payload")
		return
	}

	if !ctl.Membership.Kick(sender.ID, p.TargetUserID) {
		return
	}

	if tconn, connected := ctl.Members.Conn(p.TargetUserID); connected {
		// Notify first, then force the disconnect after a short grace so the
		// notice has a chance to flush. The target stays a valid participant
		// until the forced disconnect lands on the dispatcher.
		ctl.sendTo(p.TargetUserID, struct {
			Type string `json:"type"`
		}{Type: "kicked"})

		target := p.TargetUserID
		time.AfterFunc(ctl.KickGrace, func() {
			ctl.post(command{sid: target, op: opForceDisconnect, conn: tconn})
		})
		return
	}

	// Connection already gone: reconcile the table directly. user_left goes
	// out even when the target was never in it, so clients converge.
	audience := ctl.audience()
	res := ctl.Membership.Leave(p.TargetUserID)
	if res.PeerLeft != "" {
		ctl.emitTo(exclude(audience, p.TargetUserID), struct {
			Type   string `json:"type"`
			PeerID string `json:"peerId"`
		}{
			Type:   "peer_left",
			PeerID: res.PeerLeft,
		})
	}
	name := ""
	if res.Removed != nil {
		name = res.Removed.Name
	}
	ctl.emitTo(exclude(audience, p.TargetUserID), struct {
		Type string               `json:"type"`
		ID   domain.ParticipantID `json:"id"`
		Name string               `json:"name"`
	}{
		Type: "user_left",
		ID:   p.TargetUserID,
		Name: name,
	})
}

// audience lists every current participant id.
func (ctl *Controller) audience() []domain.ParticipantID {
	snap := ctl.Membership.Store.Snapshot()
	ids := make([]domain.ParticipantID, 0, len(snap))
	for _, p := range snap {
		ids = append(ids, p.ID)
	}
	return ids
}

func exclude(ids []domain.ParticipantID, skip domain.ParticipantID) []domain.ParticipantID {
	out := make([]domain.ParticipantID, 0, len(ids))
	for _, id := range ids {
		if id != skip {
			out = append(out, id)
		}
	}
	return out
}
