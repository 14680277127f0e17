package agent

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ashureev/avika/internal/identity"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const wsWriteTimeout = 10 * time.Second

// HandleWebSocket handles GET /ws/sessions/{id}: a chat socket bound to one
// existing session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	owner := identity.DeviceIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if _, err := h.svc.Get(owner, id); err != nil {
		h.writeError(w, err)
		return
	}

	opts := &websocket.AcceptOptions{OriginPatterns: h.cfg.OriginPatterns}
	if h.cfg.IsDev {
		opts.InsecureSkipVerify = true
	}
	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.log.Warn("Failed to accept WebSocket", zap.Error(err), zap.String("session_id", id))
		return
	}
	defer func() { _ = ws.CloseNow() }()

	h.conns.Register(id, ws)
	defer h.conns.Unregister(id, ws)

	h.log.Info("Chat socket connected", zap.String("session_id", id), zap.String("ip", identity.IPFromRequest(r)))
	h.readLoop(r.Context(), ws, owner, id)
	h.log.Info("Chat socket closed", zap.String("session_id", id))
}

func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, owner, id string) {
	for {
		var in InboundFrame
		if err := wsjson.Read(ctx, ws, &in); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				h.log.Debug("Chat socket read error", zap.Error(err), zap.String("session_id", id))
			}
			return
		}

		out, ok := h.dispatch(ctx, owner, id, in)
		if !ok {
			_ = ws.Close(websocket.StatusNormalClosure, "session ended")
			return
		}
		if err := h.writeFrame(ctx, ws, out); err != nil {
			h.log.Debug("Chat socket write error", zap.Error(err), zap.String("session_id", id))
			return
		}
	}
}

// dispatch handles one inbound frame. It reports false when the session is gone.
func (h *Handler) dispatch(ctx context.Context, owner, id string, in InboundFrame) (OutboundFrame, bool) {
	switch in.Type {
	case FrameMessage:
		if in.Content == "" {
			return OutboundFrame{Type: FrameError, Error: "content is required"}, true
		}
		if h.rateLimiter != nil && !h.rateLimiter.Allow(owner) {
			return OutboundFrame{Type: FrameError, Error: "rate limit exceeded"}, true
		}
		reply, state, err := h.svc.Submit(ctx, owner, id, in.Content, in.Legacy)
		if err != nil {
			return h.errorFrame(err)
		}
		return OutboundFrame{Type: FrameReply, Content: reply, State: &state}, true
	case FrameAnswer:
		state, err := h.svc.SetAnswer(owner, id, in.QuestionID, in.Answer)
		if err != nil {
			return h.errorFrame(err)
		}
		return OutboundFrame{Type: FrameState, State: &state}, true
	case FramePing:
		return OutboundFrame{Type: FramePong}, true
	default:
		return OutboundFrame{Type: FrameError, Error: "unknown frame type"}, true
	}
}

func (h *Handler) errorFrame(err error) (OutboundFrame, bool) {
	if errors.Is(err, ErrSessionNotFound) {
		return OutboundFrame{}, false
	}
	_, msg := errorStatus(err)
	return OutboundFrame{Type: FrameError, Error: msg}, true
}

func (h *Handler) writeFrame(ctx context.Context, ws *websocket.Conn, f OutboundFrame) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws, f)
}
