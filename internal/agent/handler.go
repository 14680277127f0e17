package agent

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashureev/avika/internal/api"
	"github.com/ashureev/avika/internal/extractor"
	"github.com/ashureev/avika/internal/identity"
	"github.com/ashureev/avika/internal/questionnaire"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20

// HandlerConfig tunes request limits and socket origins.
type HandlerConfig struct {
	MaxRequestBodySize int64
	// OriginPatterns are allowed socket origins, as URLs or host patterns.
	// Empty means same host only.
	OriginPatterns []string
	IsDev          bool
}

// Handler serves the session API.
type Handler struct {
	svc         *Service
	rateLimiter *RateLimiter
	conns       *Connections
	cfg         HandlerConfig
	log         *zap.Logger
}

// NewHandler creates a handler over svc.
func NewHandler(svc *Service, limiter *RateLimiter, conns *Connections, log *zap.Logger, cfg HandlerConfig) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if conns == nil {
		conns = NewConnections(log)
	}
	cfg.OriginPatterns = originHosts(cfg.OriginPatterns)
	return &Handler{
		svc:         svc,
		rateLimiter: limiter,
		conns:       conns,
		cfg:         cfg,
		log:         log.Named("http"),
	}
}

// RegisterRoutes registers the session API. Identity middleware must run first.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.HandleQuestions)
		r.Post("/sessions", h.HandleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.HandleState)
			r.Delete("/", h.HandleDelete)
			r.Post("/messages", h.HandleMessage)
			r.Put("/answers/{questionID}", h.HandleAnswer)
			r.Get("/report", h.HandleReport)
			r.Post("/simulate", h.HandleSimulate)
		})
	})
	r.Get("/ws/sessions/{id}", h.HandleWebSocket)
}

// Close releases handler resources.
func (h *Handler) Close() {
	h.conns.CloseAll()
	if h.rateLimiter != nil {
		h.rateLimiter.Stop()
	}
}

// HandleQuestions handles GET /api/questions.
func (h *Handler) HandleQuestions(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, h.svc.Bank().Questions())
}

// HandleCreate handles POST /api/sessions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner := identity.DeviceIDFromContext(r.Context())
	if owner == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, sess := h.svc.Create(owner)
	api.JSON(w, http.StatusCreated, CreateResponse{
		SessionID: id,
		Greeting:  sess.Greeting(),
		State:     sess.Snapshot(),
	})
}

// HandleState handles GET /api/sessions/{id}.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.State(identity.DeviceIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, state)
}

// HandleDelete handles DELETE /api/sessions/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(identity.DeviceIDFromContext(r.Context()), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.conns.CloseSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMessage handles POST /api/sessions/{id}/messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	owner := identity.DeviceIDFromContext(r.Context())
	if h.rateLimiter != nil && !h.rateLimiter.Allow(owner) {
		api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req MessageRequest
	if !api.Decode(w, r, h.cfg.MaxRequestBodySize, &req) {
		return
	}
	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, state, err := h.svc.Submit(r.Context(), owner, chi.URLParam(r, "id"), req.Message, req.Legacy)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, TurnResponse{Response: reply, State: state})
}

// HandleAnswer handles PUT /api/sessions/{id}/answers/{questionID}.
func (h *Handler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	qid, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		api.Error(w, http.StatusNotFound, "unknown question")
		return
	}

	var req AnswerRequest
	if !api.Decode(w, r, h.cfg.MaxRequestBodySize, &req) {
		return
	}

	state, err := h.svc.SetAnswer(identity.DeviceIDFromContext(r.Context()), chi.URLParam(r, "id"), qid, req.Answer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, state)
}

// HandleReport handles GET /api/sessions/{id}/report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Report(identity.DeviceIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, rep)
}

// HandleSimulate handles POST /api/sessions/{id}/simulate.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	owner := identity.DeviceIDFromContext(r.Context())
	if h.rateLimiter != nil && !h.rateLimiter.Allow(owner) {
		api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	var req SimulateRequest
	if !api.Decode(w, r, h.cfg.MaxRequestBodySize, &req) {
		return
	}
	msg, err := h.svc.Simulate(r.Context(), owner, chi.URLParam(r, "id"), req.Style)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, SimulateResponse{Message: msg})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", zap.Error(err))
	}
	api.Error(w, status, msg)
}

// originHosts strips schemes, since websocket.Accept matches on host only.
func originHosts(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://")
		if o = strings.TrimSuffix(o, "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, questionnaire.ErrUnknownQuestion):
		return http.StatusNotFound, "unknown question"
	case errors.Is(err, questionnaire.ErrInvalidLetter):
		return http.StatusBadRequest, "answer must be one of A, B, C, D"
	case errors.Is(err, extractor.ErrUnknownStyle):
		return http.StatusBadRequest, "style must be generic, detailed or contradictory"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
