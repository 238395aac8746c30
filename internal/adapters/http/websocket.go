package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/trailview/internal/adapters/nats"
	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/usecases"
)

// wsMessage is sent from the map client.
type wsMessage struct {
	Type  string             `json:"type"` // "camera"
	State domain.CameraState `json:"state"`
}

// writeWait bounds a single frame write so a stalled client cannot pin a writer.
const writeWait = 10 * time.Second

// wsWriter serializes writes from the session, the relay and the pinger.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsWriter) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// Send implements ports.CommandSink.
func (w *wsWriter) Send(cmd domain.MapCommand) error {
	return w.writeJSON(cmd)
}

// WebSocketHandler returns a handler that owns one map session per
// connection. Clients connect with ?route=<slug>&variant=<name>, receive the
// map commands for that page, and report camera moves back as
// {"type":"camera","state":{...}}. Camera moves from other viewers of the
// same route are relayed when NATS is available.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		w := &wsWriter{conn: c}
		routeSlug := c.Query("route")
		variantName := c.Query("variant", deps.DefaultVariant)
		log := slog.Default().With("remote", c.RemoteAddr().String(), "route", routeSlug)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if routeSlug == "" {
			_ = w.writeJSON(map[string]string{"error": "route query parameter is required"})
			return
		}
		view, err := deps.Views.View(ctx, routeSlug, variantName)
		if err != nil {
			_ = w.writeJSON(map[string]string{"error": err.Error()})
			return
		}

		session, err := deps.Sessions.Acquire(routeSlug, w)
		if err != nil {
			log.Error("acquire map session", "error", err)
			return
		}
		defer session.Release()
		log = log.With("session_id", session.ID)
		log.Info("map session opened", "variant", view.Variant.Name)

		_ = w.writeJSON(map[string]any{"type": "session", "payload": map[string]string{"id": session.ID}})
		if err := session.Present(view.Variant, view.Markers); err != nil {
			log.Warn("present map", "error", err)
			return
		}

		if deps.NATS != nil {
			sub, err := relayCamera(deps.NATS, w, routeSlug, session.ID)
			if err != nil {
				log.Warn("camera relay unavailable", "error", err)
			} else {
				defer func() { _ = sub.Unsubscribe() }()
			}
		}

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := w.ping(); err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			handleClientMessage(ctx, deps, w, session, msg)
		}

		log.Info("map session closed")
	}
}

func handleClientMessage(ctx context.Context, deps *Dependencies, w *wsWriter, session *usecases.MapSession, msg []byte) {
	var m wsMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		_ = w.writeJSON(map[string]string{"error": "invalid JSON"})
		return
	}

	switch m.Type {
	case "camera":
		event := &domain.CameraEvent{
			SessionID: session.ID,
			RouteSlug: session.RouteSlug,
			State:     m.State,
		}
		if err := deps.Camera.Report(ctx, event); err != nil {
			_ = w.writeJSON(map[string]string{"error": err.Error()})
		}
	default:
		_ = w.writeJSON(map[string]string{"error": "unknown message type: " + m.Type})
	}
}

// relayCamera forwards camera events of other sessions on the same route.
func relayCamera(nc *nats.Conn, w *wsWriter, routeSlug, sessionID string) (*nats.Subscription, error) {
	return nc.Subscribe(natsadapter.CameraSubject(routeSlug), func(msg *nats.Msg) {
		var event domain.CameraEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil || event.SessionID == sessionID {
			return
		}
		_ = w.writeJSON(map[string]any{"type": "camera_relay", "payload": event})
	})
}
