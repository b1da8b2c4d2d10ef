package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fortunecookie-ai/fortune-api/internal/auth"
	"github.com/fortunecookie-ai/fortune-api/internal/fortune"
	"github.com/fortunecookie-ai/fortune-api/internal/httputil"
	"github.com/fortunecookie-ai/fortune-api/internal/quota"
	"github.com/fortunecookie-ai/fortune-api/internal/telemetry"
	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

// Handler holds dependencies for the fortune HTTP handlers.
type Handler struct {
	pipeline *fortune.Pipeline
	quota    quota.Store
	metrics  *telemetry.Metrics
}

func NewHandler(pipeline *fortune.Pipeline, q quota.Store, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		pipeline: pipeline,
		quota:    q,
		metrics:  metrics,
	}
}

// Fortunes handles POST /v1/fortunes
func (h *Handler) Fortunes(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Not authenticated")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteBadRequest(w, reqID, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	out, err := h.pipeline.Process(r.Context(), id.Key, id.Tier, body)
	if err != nil {
		h.writeProcessError(w, reqID, id, err)
		return
	}

	writeQuotaHeaders(w, out.Quota)

	duration := time.Since(receivedAt)
	slog.Info("fortune served",
		"request_id", reqID,
		"theme", out.Result.Theme,
		"source", out.Result.Source,
		"cached", out.Cached,
		"tier", id.Tier,
		"quota_remaining", out.Quota.Remaining,
		"duration_ms", duration.Milliseconds(),
	)

	if h.metrics != nil {
		h.metrics.RecordRequest(telemetry.RequestLabels{
			Theme:      out.Result.Theme,
			Source:     string(out.Result.Source),
			Status:     "200",
			Tier:       string(id.Tier),
			DurationMs: float64(duration.Milliseconds()),
		})
	}

	httputil.WriteData(w, reqID, out.Result, &httputil.Meta{
		Quota:  out.Quota,
		Source: string(out.Result.Source),
	})
}

func (h *Handler) writeProcessError(w http.ResponseWriter, reqID string, id *auth.Identity, err error) {
	var verr *fortune.ValidationError
	var blocked *fortune.BlockedError
	var denied *fortune.PolicyDeniedError

	switch {
	case errors.Is(err, fortune.ErrInvalidJSON):
		httputil.WriteInvalidJSON(w, reqID)
	case errors.As(err, &verr):
		httputil.WriteBadRequest(w, reqID, verr.Message)
	case errors.As(err, &blocked):
		slog.Warn("request blocked",
			"request_id", reqID,
			"rule", blocked.Rule,
			"identity", id.Key,
		)
		httputil.WriteBadRequest(w, reqID, blocked.Message)
	case errors.As(err, &denied):
		slog.Warn("request denied by policy",
			"request_id", reqID,
			"reason", denied.Reason,
			"identity", id.Key,
		)
		httputil.WriteBadRequest(w, reqID, denied.Error())
	default:
		slog.Error("pipeline failed", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, "Internal error")
	}
}

// Quota handles GET /v1/quota. It reports the caller's counter state
// without consuming a unit.
func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, "Not authenticated")
		return
	}

	status, err := h.quota.Peek(r.Context(), id.Key, id.Tier)
	if err != nil {
		slog.Error("quota peek failed", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, "Failed to read quota")
		return
	}

	writeQuotaHeaders(w, status)
	httputil.WriteData(w, reqID, status, nil)
}

// Themes handles GET /v1/themes and lists the accepted enum values.
func (h *Handler) Themes(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	httputil.WriteData(w, reqID, map[string]any{
		"themes":  types.Themes(),
		"moods":   types.Moods(),
		"lengths": types.Lengths(),
	}, nil)
}

func writeQuotaHeaders(w http.ResponseWriter, status quota.Status) {
	w.Header().Set("X-Quota-Limit", strconv.FormatInt(status.Limit, 10))
	w.Header().Set("X-Quota-Remaining", strconv.FormatInt(status.Remaining, 10))
	if !status.ResetAt.IsZero() {
		w.Header().Set("X-Quota-Reset", strconv.FormatInt(status.ResetAt.Unix(), 10))
	}
}
