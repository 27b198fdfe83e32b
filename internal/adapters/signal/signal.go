package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app"
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the boundary between the WebSocket transport and the
// session components. Read pumps never touch shared state directly; they
// post commands into the inbox and a single dispatcher goroutine (Run)
// handles them one at a time to completion.
type Controller struct {
	Members    *MemberRegistry
	Membership *app.MembershipManager
	Gate       app.PermissionGate
	Chat       *core.ChatLog
	Peers      *core.PeerDirectory
	Limiter    *ChatRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
	KickGrace  time.Duration

	ctx   context.Context
	inbox chan command
}

// NewController wires the controller against its components. ctx bounds the
// dispatcher and is fixed here, before any goroutine can observe it.
func NewController(ctx context.Context, m *app.MembershipManager, gate app.PermissionGate, limiter *ChatRateLimiter) *Controller {
	return &Controller{
		Members:    NewMemberRegistry(),
		Membership: m,
		Gate:       gate,
		Chat:       m.Chat,
		Peers:      m.Peers,
		Limiter:    limiter,
		ReadLimit:  32768,
		PingPeriod: 54 * time.Second,
		KickGrace:  500 * time.Millisecond,
		ctx:        ctx,
		inbox:      make(chan command, 256),
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Run drains the inbox until the controller context is canceled. Exactly one
// Run per process; this is what keeps every handler non-reentrant.
func (ctl *Controller) Run() {
	for {
		select {
		case <-ctl.ctx.Done():
			log.Info().Str("module", "signal").Msg("dispatcher stopped")
			return
		case cmd := <-ctl.inbox:
			ctl.dispatch(cmd)
		}
	}
}

func (ctl *Controller) post(cmd command) {
	select {
	case ctl.inbox <- cmd:
	case <-ctl.ctx.Done():
	}
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.ParticipantID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	connCtx, cancel := context.WithCancel(ctx)
	ctl.Members.Bind(sid, conn, cancel)

	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, sid, conn)
}
