package wsgateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/ids"
	"github.com/meerski/arakh/internal/logging"
	"github.com/meerski/arakh/internal/session"
)

// Connection timing constants, identical to the teacher's client.go.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Conn is the subset of *websocket.Conn a Client drives; declared so tests
// can substitute a fake transport.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	Close() error
}

// ActionSubmitter is the subset of *engine.Engine a Client needs: queuing
// an agent action onto the tick inbox. Declared as an interface so tests
// can substitute a fake engine instead of standing up a fully-wired one.
type ActionSubmitter interface {
	Submit(action engine.InboxAction) bool
}

// Client is one connected owner's gateway-side endpoint: a session plus
// the websocket connection pumping its outbox, grounded on the teacher's
// Client/ReadPump/WritePump pattern.
type Client struct {
	SessionID ids.SessionId
	OwnerID   ids.OwnerId

	conn    Conn
	outbox  <-chan session.Outbound
	engine  ActionSubmitter
	manager *session.Manager
}

// NewClient wires a websocket connection to a registered session.
func NewClient(conn Conn, sess *session.Session, outbox <-chan session.Outbound, eng ActionSubmitter, mgr *session.Manager) *Client {
	return &Client{
		SessionID: sess.ID,
		OwnerID:   sess.OwnerID,
		conn:      conn,
		outbox:    outbox,
		engine:    eng,
		manager:   mgr,
	}
}

// ReadPump decodes inbound frames until the connection closes, dispatching
// subscribe and action frames. Run it in its own goroutine.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.manager.Unregister(c.SessionID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.manager.Touch(c.SessionID)

		var frame ClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendError("invalid frame")
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame ClientFrame) {
	switch frame.Type {
	case FrameSubscribe:
		var sub SubscribeFrame
		if err := json.Unmarshal(frame.Data, &sub); err != nil {
			c.sendError("invalid subscribe frame")
			return
		}
		if err := c.manager.Subscribe(c.SessionID, sub.FamilyTreeID); err != nil {
			c.sendError(err.Error())
		}

	case FrameAction:
		var act ActionFrame
		if err := json.Unmarshal(frame.Data, &act); err != nil {
			c.sendError("invalid action frame")
			return
		}
		if ok := c.engine.Submit(engine.InboxAction{CharacterID: act.CharacterID, Action: act.toAction()}); !ok {
			c.sendError("action inbox full")
		}

	default:
		c.sendError("unknown frame type: " + frame.Type)
	}
}

func (c *Client) sendError(message string) {
	c.writeJSON(session.Outbound{Type: "error", Data: ErrorFrame{Message: message}})
}

// WritePump drains the session's outbox to the connection until it closes
// or ctx is cancelled. Run it in its own goroutine alongside ReadPump.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.outbox:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		logging.LogError(context.Background(), err, "wsgateway: failed to marshal outbound frame", nil)
		return err
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
