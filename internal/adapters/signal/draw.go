package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// handleDrawData relays the stroke envelope verbatim to everyone else,
// subject to the permission gate. Strokes are never stored; a participant
// joining mid-session gets no drawing history.
func (ctl *Controller) handleDrawData(sender domain.Participant, data []byte) {
	if !ctl.Gate.CanDraw(sender) {
		log.Debug().Str("module", "signal").Str("sid", string(sender.ID)).Msg("draw denied")
		return
	}
	ctl.relayExcept(sender.ID, core.Frame(data))
}

func (ctl *Controller) handleClearCanvas(sender domain.Participant) {
	if !ctl.Gate.ClearCanvas(sender.ID) {
		return
	}
	ctl.broadcastAll(struct {
		Type string `json:"type"`
	}{Type: "clear_canvas"})
}

func (ctl *Controller) handleToggleDraw(sender domain.Participant, data []byte) {
	type togglePayload struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad toggle payload")
		return
	}
	if !ctl.Gate.SetGlobalDrawing(sender.ID, p.Enabled) {
		return
	}
	ctl.broadcastAll(struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}{
		Type:    "drawing_toggled",
		Enabled: p.Enabled,
	})
}

func (ctl *Controller) handleSetUserDraw(sender domain.Participant, data []byte) {
	type setDrawPayload struct {
		Type         string               `json:"type"`
		TargetUserID domain.ParticipantID `json:"targetUserId"`
		CanDraw      bool                 `json:"canDraw"`
	}
	var p setDrawPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad set_user_draw payload")
		return
	}
	updated, ok := ctl.Gate.SetParticipantDraw(sender.ID, p.TargetUserID, p.CanDraw)
	if !ok {
		return
	}
	ctl.broadcastAll(struct {
		Type string             `json:"type"`
		User domain.Participant `json:"user"`
	}{
		Type: "user_updated",
		User: updated,
	})
}

func (ctl *Controller) handleStreamStatus(sender domain.Participant, data []byte) {
	type streamPayload struct {
		Type         string `json:"type"`
		StreamActive bool   `json:"streamActive"`
	}
	var p streamPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad stream_status payload")
		return
	}
	if _, ok := ctl.Membership.Store.SetStreamActive(sender.ID, p.StreamActive); !ok {
		return
	}
	ctl.broadcastExcept(sender.ID, struct {
		Type         string               `json:"type"`
		ID           domain.ParticipantID `json:"id"`
		StreamActive bool                 `json:"streamActive"`
	}{
		Type:         "user_stream_status",
		ID:           sender.ID,
		StreamActive: p.StreamActive,
	})
}
