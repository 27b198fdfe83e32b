package signal

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

type memberEntry struct {
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// MemberRegistry binds participant ids to live transport endpoints. A
// connection exists here from upgrade until socket close, independent of
// whether its participant ever joined the session.
type MemberRegistry struct {
	mu      sync.RWMutex
	members map[domain.ParticipantID]*memberEntry
}

func NewMemberRegistry() *MemberRegistry {
	return &MemberRegistry{members: make(map[domain.ParticipantID]*memberEntry)}
}

// Bind registers the connection for sid. A binding that is already present
// is superseded: its socket is closed and its pumps canceled, so only one
// live connection ever serves a participant.
func (r *MemberRegistry) Bind(sid domain.ParticipantID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	old := r.members[sid]
	r.members[sid] = &memberEntry{Conn: conn, Cancel: cancel}
	r.mu.Unlock()

	if old != nil {
		old.Conn.Close()
		if old.Cancel != nil {
			old.Cancel()
		}
		log.Info().Str("module", "signal.registry").Str("sid", string(sid)).Msg("superseded connection")
	}
	log.Info().Str("module", "signal.registry").Str("sid", string(sid)).Msg("bound connection")
}

// Unbind drops the binding and cancels its pump context so nothing keeps
// holding on to it.
func (r *MemberRegistry) Unbind(sid domain.ParticipantID) {
	r.mu.Lock()
	e := r.members[sid]
	delete(r.members, sid)
	r.mu.Unlock()

	if e != nil && e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "signal.registry").Str("sid", string(sid)).Msg("unbound connection")
}

func (r *MemberRegistry) Conn(sid domain.ParticipantID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.members[sid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// Cancel closes the connection and cancels its pumps. Closing unblocks a
// pending ReadMessage, which is what turns a forced kick into a normal
// disconnect on the dispatcher.
func (r *MemberRegistry) Cancel(sid domain.ParticipantID) bool {
	r.mu.RLock()
	e, ok := r.members[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.Conn.Close()
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "signal.registry").Str("sid", string(sid)).Msg("canceled connection")
	return true
}
