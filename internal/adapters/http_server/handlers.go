package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"sentiment_qc/internal/app"
	"sentiment_qc/internal/domain"
)

type Handlers struct {
	Analytics *app.AnalyticsService
	QC        *app.QCService

	// DefaultLimit applies when the reviews endpoint gets no limit param.
	DefaultLimit int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/batches/{batch_id}/metrics", h.batchMetrics)
		r.Get("/batches/{batch_id}/reviews", h.batchReviews)
		r.Post("/batches/{batch_id}/qc-sessions", h.createQCSession)
		r.Get("/qc-sessions/{session_id}", h.qcSessionItems)
		r.Patch("/qc-items/{qc_item_id}", h.updateQCItem)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- GET /api/batches/{batch_id}/metrics ----

type dateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type appliedFilters struct {
	Platforms []string  `json:"platforms"`
	DateRange dateRange `json:"date_range"`
}

type metricsMeta struct {
	AppliedFilters appliedFilters `json:"applied_filters"`
}

type metricsResponse struct {
	Meta metricsMeta    `json:"meta"`
	Data domain.Metrics `json:"data"`
}

func (h *Handlers) batchMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	platforms := splitCSV(q.Get("platforms"))

	// The date range is echoed back for the dashboard but not applied to
	// aggregation; the fixture is served whole.
	m, err := h.Analytics.Metrics(r.Context(), platforms)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Fixture Error", err.Error())
		return
	}

	writeJSON(w, r, metricsResponse{
		Meta: metricsMeta{AppliedFilters: appliedFilters{
			Platforms: platforms,
			DateRange: dateRange{Start: q.Get("from_date"), End: q.Get("to_date")},
		}},
		Data: m,
	})
}

func splitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ---- GET /api/batches/{batch_id}/reviews ----

type reviewsMeta struct {
	TotalFound int    `json:"total_found"`
	Sort       string `json:"sort"`
	BatchID    string `json:"batch_id"`
}

type reviewsResponse struct {
	Meta reviewsMeta     `json:"meta"`
	Data []domain.Review `json:"data"`
}

func (h *Handlers) batchReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortMode := q.Get("sort")
	if sortMode == "" {
		sortMode = "random"
	}
	limit := h.DefaultLimit
	if ls := q.Get("limit"); ls != "" {
		limit = cast.ToInt(ls)
	}

	page, err := h.Analytics.Reviews(r.Context(), domain.ReviewsQuery{
		Platform: q.Get("platform"),
		Sort:     sortMode,
		Limit:    limit,
	})
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Fixture Error", err.Error())
		return
	}

	writeJSON(w, r, reviewsResponse{
		Meta: reviewsMeta{
			TotalFound: page.TotalFound,
			Sort:       sortMode,
			BatchID:    chi.URLParam(r, "batch_id"),
		},
		Data: page.Items,
	})
}

// ---- POST /api/batches/{batch_id}/qc-sessions ----

type sessionBreakdown struct {
	LowConfidenceCount int `json:"low_confidence_count"`
	RandomAuditCount   int `json:"random_audit_count"`
}

type sessionData struct {
	SessionID  string           `json:"session_id"`
	TotalItems int              `json:"total_items"`
	Breakdown  sessionBreakdown `json:"breakdown"`
	CreatedAt  string           `json:"created_at"`
}

type sessionResponse struct {
	Message string      `json:"message"`
	Data    sessionData `json:"data"`
}

func (h *Handlers) createQCSession(w http.ResponseWriter, r *http.Request) {
	sum, err := h.QC.CreateSession(r.Context(), chi.URLParam(r, "batch_id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Fixture Error", err.Error())
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse{
		Message: "QC session created",
		Data: sessionData{
			SessionID:  sum.SessionID,
			TotalItems: sum.TotalItems,
			Breakdown: sessionBreakdown{
				LowConfidenceCount: sum.LowConfidenceCount,
				RandomAuditCount:   sum.RandomAuditCount,
			},
			CreatedAt: sum.CreatedAt.Format(time.RFC3339),
		},
	})
}

// ---- GET /api/qc-sessions/{session_id} ----

type sessionItemsMeta struct {
	SessionID string          `json:"session_id"`
	BatchName string          `json:"batch_name"`
	Progress  domain.Progress `json:"progress"`
}

type sessionItemsResponse struct {
	Meta  sessionItemsMeta `json:"meta"`
	Items []domain.QCItem  `json:"items"`
}

func (h *Handlers) qcSessionItems(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	progress, items, err := h.QC.SessionItems(r.Context(), sessionID)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Fixture Error", err.Error())
		return
	}
	writeJSON(w, r, sessionItemsResponse{
		Meta: sessionItemsMeta{
			SessionID: sessionID,
			BatchName: app.BatchName,
			Progress:  progress,
		},
		Items: items,
	})
}

// ---- PATCH /api/qc-items/{qc_item_id} ----

type updateRequest struct {
	CorrectSentiment string `json:"correct_sentiment"`
	Confirmed        int    `json:"confirmed"`
}

type updateData struct {
	QCItemID       int64  `json:"qc_item_id"`
	Status         string `json:"status"`
	FinalSentiment string `json:"final_sentiment"`
	UpdatedAt      string `json:"updated_at"`
}

type updateResponse struct {
	Success bool       `json:"success"`
	Data    updateData `json:"data"`
}

func (h *Handlers) updateQCItem(w http.ResponseWriter, r *http.Request) {
	id := cast.ToInt64(chi.URLParam(r, "qc_item_id"))
	if id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "qc_item_id must be a positive integer")
		return
	}

	var body updateRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected JSON {correct_sentiment?, confirmed}")
		return
	}

	res, err := h.QC.UpdateItem(r.Context(), id, domain.QCUpdate{
		CorrectSentiment: body.CorrectSentiment,
		Confirmed:        body.Confirmed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "qc item not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Fixture Error", err.Error())
		return
	}

	render.JSON(w, r, updateResponse{
		Success: true,
		Data: updateData{
			QCItemID:       res.QCItemID,
			Status:         res.Status,
			FinalSentiment: res.FinalSentiment,
			UpdatedAt:      res.UpdatedAt.Format(time.RFC3339),
		},
	})
}
