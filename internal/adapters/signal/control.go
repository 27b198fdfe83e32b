package signal

import "github.com/dkeye/Classroom/internal/domain"

func (ctl *Controller) handlePing(sid domain.ParticipantID) {
	ctl.sendTo(sid, struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	})
}
