package ingest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/metrics"
)

const (
	// Audience is the token audience game servers must present.
	Audience = "ingest"

	maxBodyBytes = 16 << 10
)

type TokenVerifier interface {
	Verify(token, audience string) (string, error)
}

type KillCrediter interface {
	CreditKill(ctx context.Context, ev domain.KillEvent) []domain.Promotion
}

type PresenceTracker interface {
	Online(id domain.PlayerID, world string)
	Offline(id domain.PlayerID)
}

type killRequest struct {
	Killer string    `json:"killer"`
	World  string    `json:"world"`
	Victim string    `json:"victim"`
	At     time.Time `json:"at"`
}

type presenceRequest struct {
	Player string `json:"player"`
	Status string `json:"status"`
	World  string `json:"world"`
}

type promotionResponse struct {
	Player  string `json:"player"`
	OldRank string `json:"old_rank,omitempty"`
	NewRank string `json:"new_rank"`
}

type killResponse struct {
	Promotions []promotionResponse `json:"promotions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the game-server facing API.
type Handler struct {
	tokens   TokenVerifier
	kills    KillCrediter
	presence PresenceTracker
	schemas  *schemas
	now      func() time.Time
}

func NewHandler(tokens TokenVerifier, kills KillCrediter, presence PresenceTracker) (*Handler, error) {
	s, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &Handler{
		tokens:   tokens,
		kills:    kills,
		presence: presence,
		schemas:  s,
		now:      time.Now,
	}, nil
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/kills", h.instrument("kills", h.authenticated(http.HandlerFunc(h.handleKill))))
	mux.Handle("POST /v1/presence", h.instrument("presence", h.authenticated(http.HandlerFunc(h.handlePresence))))
	mux.Handle("GET /healthz", h.instrument("healthz", http.HandlerFunc(h.handleHealth)))
	return mux
}

func (h *Handler) handleKill(w http.ResponseWriter, r *http.Request) {
	var req killRequest
	if !h.decode(w, r, h.schemas.kill.Validate, &req) {
		return
	}

	at := req.At
	if at.IsZero() {
		at = h.now()
	}
	promotions := h.kills.CreditKill(r.Context(), domain.KillEvent{
		Killer: domain.PlayerID(req.Killer),
		World:  req.World,
		Victim: domain.VictimKind(req.Victim),
		At:     at,
	})

	resp := killResponse{Promotions: make([]promotionResponse, 0, len(promotions))}
	for _, p := range promotions {
		resp.Promotions = append(resp.Promotions, promotionResponse{
			Player:  string(p.Player),
			OldRank: p.OldRank.String(),
			NewRank: p.NewRank.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePresence(w http.ResponseWriter, r *http.Request) {
	var req presenceRequest
	if !h.decode(w, r, h.schemas.presence.Validate, &req) {
		return
	}

	id := domain.PlayerID(req.Player)
	if req.Status == "online" {
		h.presence.Online(id, req.World)
	} else {
		h.presence.Offline(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode validates the body against a schema before unmarshalling into dst.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, validate func(any) error, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "body too large"})
		return false
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed json"})
		return false
	}
	if err := validate(doc); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed payload"})
		return false
	}
	return true
}

func (h *Handler) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}
		subject, err := h.tokens.Verify(token, Audience)
		if err != nil {
			slog.Warn("Rejected ingest token", "remote", r.RemoteAddr, "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		slog.Debug("Ingest request", "path", r.URL.Path, "subject", subject)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.IngestRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write ingest response", "error", err)
	}
}
