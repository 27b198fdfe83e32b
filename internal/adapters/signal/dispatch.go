package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

type commandOp int

const (
	opEvent commandOp = iota
	opDisconnect
	opForceDisconnect
)

// command is one unit of work for the dispatcher: an inbound event or a
// transport-level notification.
type command struct {
	sid  domain.ParticipantID
	typ  string
	data []byte
	op   commandOp
	// conn identifies which connection a disconnect came from, so a late
	// notification from a superseded socket can be told apart from the
	// current one.
	conn core.SignalConnection
}

// dispatch runs a single command to completion against shared state. Every
// event except join_room requires the sender to already be a participant;
// anything else is silently discarded.
func (ctl *Controller) dispatch(cmd command) {
	switch cmd.op {
	case opDisconnect:
		ctl.handleDisconnect(cmd.sid, cmd.conn)
		return
	case opForceDisconnect:
		ctl.handleForceDisconnect(cmd.sid, cmd.conn)
		return
	}

	switch cmd.typ {
	case "join_room":
		ctl.handleJoinRoom(cmd.sid, cmd.data)
		return
	case "ping":
		ctl.handlePing(cmd.sid)
		return
	}

	sender, ok := ctl.Membership.Store.Get(cmd.sid)
	if !ok {
		log.Debug().Str("module", "signal").Str("sid", string(cmd.sid)).Str("type", cmd.typ).Msg("event from unknown sender")
		return
	}

	switch cmd.typ {
	case "set_admin":
		ctl.handleSetAdmin(sender, cmd.data)
	case "peer_ready":
		ctl.handlePeerReady(sender, cmd.data)
	case "peer_left":
		ctl.handlePeerLeft(sender, cmd.data)
	case "leave_session":
		ctl.handleLeaveSession(sender)
	case "chat_message":
		ctl.handleChatMessage(sender, cmd.data)
	case "delete_message":
		ctl.handleDeleteMessage(sender, cmd.data)
	case "draw_data":
		ctl.handleDrawData(sender, cmd.data)
	case "clear_canvas":
		ctl.handleClearCanvas(sender)
	case "toggle_draw":
		ctl.handleToggleDraw(sender, cmd.data)
	case "set_user_draw":
		ctl.handleSetUserDraw(sender, cmd.data)
	case "kick_user":
		ctl.handleKickUser(sender, cmd.data)
	case "stream_status":
		ctl.handleStreamStatus(sender, cmd.data)
	default:
		log.Warn().Str("module", "signal").Str("type", cmd.typ).Msg("unknown signal")
	}
}
