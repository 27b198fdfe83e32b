package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/domain"
)

func (ctl *Controller) handleChatMessage(sender domain.Participant, data []byte) {
	type chatPayload struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	if p.Message == "" {
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(sender.ID) {
		log.Warn().Str("module", "signal").Str("sid", string(sender.ID)).Msg("chat rate limited")
		return
	}

	msg := ctl.Chat.Append(sender, p.Message)
	ctl.broadcastAll(struct {
		Type    string             `json:"type"`
		Message domain.ChatMessage `json:"message"`
	}{
		Type:    "new_message",
		Message: msg,
	})
}

func (ctl *Controller) handleDeleteMessage(sender domain.Participant, data []byte) {
	type deletePayload struct {
		Type      string           `json:"type"`
		MessageID domain.MessageID `json:"messageId"`
	}
	var p deletePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad delete payload")
		return
	}
	if !sender.IsAdmin() {
		return
	}
	if !ctl.Chat.Delete(p.MessageID) {
		return
	}
	ctl.broadcastAll(struct {
		Type string           `json:"type"`
		ID   domain.MessageID `json:"id"`
	}{
		Type: "message_deleted",
		ID:   p.MessageID,
	})
}
