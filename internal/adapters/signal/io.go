package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid domain.ParticipantID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.post(command{sid: sid, op: opDisconnect, conn: c})
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			var env struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &env); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("bad json")
				continue
			}
			ctl.post(command{sid: sid, typ: env.Type, data: data})
		}
	}
}

func (ctl *Controller) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendTo emits to a single participant, silently skipping absent connections.
func (ctl *Controller) sendTo(id domain.ParticipantID, v any) {
	if conn, ok := ctl.Members.Conn(id); ok {
		ctl.sendJSON(conn, v)
	}
}

// broadcastAll emits to every participant in the session, sender included.
func (ctl *Controller) broadcastAll(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.relayExcept("", b)
}

// broadcastExcept emits to every participant except one.
func (ctl *Controller) broadcastExcept(from domain.ParticipantID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	ctl.relayExcept(from, b)
}

// emitTo delivers to an explicit recipient list, for broadcasts whose
// audience was captured before a mutation (session reset empties the table).
func (ctl *Controller) emitTo(ids []domain.ParticipantID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	for _, id := range ids {
		if conn, ok := ctl.Members.Conn(id); ok {
			_ = conn.TrySend(b)
		}
	}
}

// relayExcept fans a raw frame out to the session, best-effort.
func (ctl *Controller) relayExcept(from domain.ParticipantID, frame core.Frame) {
	for _, p := range ctl.Membership.Store.Snapshot() {
		if p.ID == from {
			continue
		}
		if conn, ok := ctl.Members.Conn(p.ID); ok {
			_ = conn.TrySend(frame)
		}
	}
}
