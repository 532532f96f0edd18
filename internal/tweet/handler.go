package tweet

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sundayezeilo/tweets/internal/errx"
	"github.com/sundayezeilo/tweets/internal/httpx"
)

// PublishTweetRequest is the JSON body of POST /tweet. Content rules live in
// the service so that every caller gets the same error message.
type PublishTweetRequest struct {
	Publisher string `json:"publisher"`
	Tweet     string `json:"tweet"`
}

// DiscardTweetRequest is the JSON body of POST /discarded. Any id is
// accepted; ids that match no tweet are rejected by the service.
type DiscardTweetRequest struct {
	Tweet *int64 `json:"tweet" validate:"required"`
}

// TweetResponse is the JSON representation of a tweet.
type TweetResponse struct {
	ID                     int64   `json:"id"`
	Publisher              string  `json:"publisher"`
	Tweet                  string  `json:"tweet"`
	Pre2015MigrationStatus int     `json:"pre2015MigrationStatus"`
	Discarded              bool    `json:"discarded"`
	CreatedAt              string  `json:"createdAt"`
	DiscardedAt            *string `json:"discardedAt,omitempty"`
}

func toResponse(t Tweet) TweetResponse {
	resp := TweetResponse{
		ID:                     t.ID,
		Publisher:              t.Publisher,
		Tweet:                  t.Text,
		Pre2015MigrationStatus: t.Pre2015MigrationStatus,
		Discarded:              t.Discarded,
		CreatedAt:              t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.DiscardedAt != nil {
		at := t.DiscardedAt.UTC().Format(time.RFC3339)
		resp.DiscardedAt = &at
	}
	return resp
}

func toResponses(ts []Tweet) []TweetResponse {
	out := make([]TweetResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toResponse(t))
	}
	return out
}

// Handler exposes the tweet service over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: cfg.Service, logger: logger}
}

// Routes registers the tweet endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /tweet", h.PublishTweet)
	mux.HandleFunc("GET /tweet", h.ListTweets)
	mux.HandleFunc("GET /tweet/{id}", h.GetTweet)
	mux.HandleFunc("POST /discarded", h.DiscardTweet)
	mux.HandleFunc("GET /discarded", h.ListDiscardedTweets)
}

// PublishTweet handles POST /tweet.
func (h *Handler) PublishTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[PublishTweetRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := h.service.PublishTweet(ctx, req.Publisher, req.Tweet); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, struct{}{})
}

// ListTweets handles GET /tweet.
func (h *Handler) ListTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.service.ListAllTweets(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponses(tweets))
}

// GetTweet handles GET /tweet/{id}.
func (h *Handler) GetTweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "tweet id must be a positive integer", nil)
		return
	}

	t, err := h.service.GetTweet(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if t == nil {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "tweet not found", nil)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(*t))
}

// DiscardTweet handles POST /discarded.
func (h *Handler) DiscardTweet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httpx.DecodeJSON[DiscardTweetRequest](r)
	if err != nil {
		h.requestLogger(r).WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := h.service.DiscardTweet(ctx, *req.Tweet); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

// ListDiscardedTweets handles GET /discarded.
func (h *Handler) ListDiscardedTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.service.ListDiscardedTweets(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponses(tweets))
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := errx.KindOf(err)
	attrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	logger := h.requestLogger(r)
	if kind == errx.Invalid {
		logger.WarnContext(r.Context(), "request rejected", attrs...)
	} else {
		logger.ErrorContext(r.Context(), "request failed", attrs...)
	}
	httpx.WriteKindError(w, err)
}
