package ws

import (
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tabshell/tabshell/backend/internal/events"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/monitoring"
	"github.com/tabshell/tabshell/backend/internal/providers/terminal"
	"github.com/tabshell/tabshell/backend/internal/shared/id"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Message is the client-to-server frame. Data is base64 for write.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      string `json:"data,omitempty"`
	Rows      int    `json:"rows,omitempty"`
	Cols      int    `json:"cols,omitempty"`
}

// Handler manages WebSocket connections that stream terminal output and
// accept keystrokes for the terminal tabs.
type Handler struct {
	ctrl    *terminal.Controller
	bus     *events.Bus
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(ctrl *terminal.Controller, bus *events.Bus, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{ctrl: ctrl, bus: bus, log: log, metrics: metrics}
}

// conn wraps a websocket connection with a write lock so the reader and the
// event pump never interleave frames.
type conn struct {
	ws      *websocket.Conn
	mu      sync.Mutex
	metrics *monitoring.Metrics
}

func (c *conn) send(data map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := c.ws.WriteJSON(data)
	if err == nil && c.metrics != nil {
		msgType, _ := data["type"].(string)
		c.metrics.WSMessages.WithLabelValues("out", msgType).Inc()
	}
	return err
}

func (c *conn) sendError(msg string, sessionID string) {
	payload := map[string]interface{}{
		"type":    "error",
		"message": msg,
	}
	if sessionID != "" {
		payload["session_id"] = sessionID
	}
	c.send(payload)
}

// attachCmd asks the pump to start or stop streaming a session.
type attachCmd struct {
	sessionID id.SessionID
	detach    bool
}

// HandleConnection upgrades the request and serves the connection until the
// client goes away. Each connection gets its own bus subscription, starting
// with no sessions watched; the client attaches to tabs with subscribe
// messages.
func (h *Handler) HandleConnection(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connID := id.NewConnID()
	cn := &conn{ws: ws, metrics: h.metrics}
	sub := h.bus.SubscribeFiltered()
	cmds := make(chan attachCmd, 16)

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	h.log.Info("websocket connected", zap.String("conn_id", connID.String()))

	defer func() {
		h.bus.Unsubscribe(sub)
		ws.Close()
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
		h.log.Info("websocket disconnected", zap.String("conn_id", connID.String()))
	}()

	var pumpWG sync.WaitGroup
	pumpWG.Add(1)
	go func() {
		defer pumpWG.Done()
		h.pump(cn, sub, cmds)
	}()
	defer pumpWG.Wait()
	defer close(cmds)

	cn.send(map[string]interface{}{
		"type":    "system",
		"conn_id": connID.String(),
		"message": "connected",
	})

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read error", zap.String("conn_id", connID.String()), zap.Error(err))
			}
			return
		}
		if h.metrics != nil {
			h.metrics.WSMessages.WithLabelValues("in", msg.Type).Inc()
		}

		switch msg.Type {
		case "subscribe":
			cmds <- attachCmd{sessionID: id.SessionID(msg.SessionID)}
		case "unsubscribe":
			cmds <- attachCmd{sessionID: id.SessionID(msg.SessionID), detach: true}
		case "write":
			h.handleWrite(cn, msg)
		case "resize":
			if err := h.ctrl.Resize(id.SessionID(msg.SessionID), msg.Rows, msg.Cols); err != nil {
				cn.sendError(err.Error(), msg.SessionID)
			}
		case "kill":
			if err := h.ctrl.Kill(id.SessionID(msg.SessionID)); err != nil {
				cn.sendError(err.Error(), msg.SessionID)
			}
		case "ping":
			cn.send(map[string]interface{}{"type": "pong"})
		default:
			cn.sendError("unknown message type: "+msg.Type, "")
		}
	}
}

func (h *Handler) handleWrite(cn *conn, msg Message) {
	data, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		cn.sendError("write data must be base64", msg.SessionID)
		return
	}
	if err := h.ctrl.Write(id.SessionID(msg.SessionID), data); err != nil {
		cn.sendError(err.Error(), msg.SessionID)
	}
}

// pump owns the per-connection replay bookkeeping. It is the only goroutine
// that touches minSeq, so attach and live delivery cannot race.
//
// Attach protocol: watch the session on the bus first, then snapshot the
// replay buffer. Every byte published before the snapshot read is inside the
// snapshot, so live events below the snapshot's end offset are duplicates
// and get trimmed. Events the filter admitted between watch and snapshot sit
// behind the command in this goroutine's queue and are trimmed the same way.
func (h *Handler) pump(cn *conn, sub *events.Subscription, cmds <-chan attachCmd) {
	minSeq := make(map[id.SessionID]uint64)

	for {
		select {
		case cmd, ok := <-cmds:
			if !ok {
				return
			}
			if cmd.detach {
				sub.Unwatch(cmd.sessionID)
				delete(minSeq, cmd.sessionID)
				continue
			}

			sub.Watch(cmd.sessionID)
			data, next, err := h.ctrl.Snapshot(cmd.sessionID)
			if err != nil {
				sub.Unwatch(cmd.sessionID)
				cn.sendError(err.Error(), cmd.sessionID.String())
				continue
			}
			minSeq[cmd.sessionID] = next
			cn.send(map[string]interface{}{
				"type":       "replay",
				"session_id": cmd.sessionID.String(),
				"data":       base64.StdEncoding.EncodeToString(data),
				"seq":        next,
			})

		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			switch evt.Type {
			case events.TypeOutput:
				min, tracked := minSeq[evt.SessionID]
				if !tracked {
					continue
				}
				if evt.Seq+uint64(len(evt.Data)) <= min {
					continue
				}
				data, seq := evt.Data, evt.Seq
				if seq < min {
					data = data[min-seq:]
					seq = min
				}
				cn.send(map[string]interface{}{
					"type":       "output",
					"session_id": evt.SessionID.String(),
					"data":       base64.StdEncoding.EncodeToString(data),
					"seq":        seq,
				})
			case events.TypeExit:
				if _, tracked := minSeq[evt.SessionID]; !tracked {
					continue
				}
				cn.send(map[string]interface{}{
					"type":       "exit",
					"session_id": evt.SessionID.String(),
					"reason":     string(evt.Reason),
				})
				sub.Unwatch(evt.SessionID)
				delete(minSeq, evt.SessionID)
			}
		}
	}
}
