//go:build integration || !unit

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	httpserver "sentiment_qc/internal/adapters/http_server"
	redisad "sentiment_qc/internal/adapters/redis"
	"sentiment_qc/internal/app"
	"sentiment_qc/internal/domain"
	"sentiment_qc/internal/storage/discard"
	"sentiment_qc/internal/storage/fixture"
)

// ---------- helpers ----------

func seedFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	reviews := []domain.Review{
		{ReviewID: 301, SourcePlatform: "shopee", ReviewDate: "2024-01-05", Content: "fast and fresh",
			Results: map[string]domain.AspectResult{"delivery": {Sentiment: "positive", Confidence: 0.91}}},
		{ReviewID: 302, SourcePlatform: "google", ReviewDate: "2024-01-12", Content: "tiny portion",
			Results: map[string]domain.AspectResult{
				"price": {Sentiment: "negative", Confidence: 0.87},
				"taste": {Sentiment: "neutral", Confidence: 0.52},
			}},
	}
	items := []domain.QCItem{
		{QCItemID: 1042, ReviewID: 302, ReviewContent: "tiny portion", Aspect: "price",
			PredictedSentiment: "neutral", Confidence: 0.52, SentimentGap: 0.31, Status: "pending"},
		{QCItemID: 1043, ReviewID: 301, ReviewContent: "fast and fresh", Aspect: "delivery",
			PredictedSentiment: "positive", Confidence: 0.91, Status: "reviewed"},
	}

	writeJSON(t, filepath.Join(dir, fixture.ReviewsFile), reviews)
	writeJSON(t, filepath.Join(dir, fixture.QCItemsFile), items)
	return dir
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newServer(t *testing.T, store *fixture.Store) *httptest.Server {
	t.Helper()
	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{
		Analytics:    app.NewAnalyticsService(store),
		QC:           app.NewQCService(store, discard.NewWriter(), false),
		DefaultLimit: 10,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, dst any) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

// ---------- the tests ----------

func TestHTTP_EndToEnd_DashboardFlow(t *testing.T) {
	dir := seedFixtures(t)
	store := fixture.New(dir, false, nil, 0)
	ts := newServer(t, store)

	// metrics: filter applies to aggregation, not to platform counts
	var metrics struct {
		Data struct {
			PlatformCounts   map[string]int `json:"platform_counts"`
			OverallSentiment struct {
				Positive int `json:"positive"`
				Negative int `json:"negative"`
				Neutral  int `json:"neutral"`
			} `json:"overall_sentiment"`
			AspectMetrics map[string]map[string]int `json:"aspect_metrics"`
		} `json:"data"`
	}
	getJSON(t, ts.URL+"/api/batches/55/metrics?platforms=google", &metrics)
	if metrics.Data.PlatformCounts["shopee"] != 1 || metrics.Data.PlatformCounts["google"] != 1 {
		t.Fatalf("platform counts: %+v", metrics.Data.PlatformCounts)
	}
	if metrics.Data.OverallSentiment.Negative != 1 || metrics.Data.OverallSentiment.Neutral != 1 ||
		metrics.Data.OverallSentiment.Positive != 0 {
		t.Fatalf("overall: %+v", metrics.Data.OverallSentiment)
	}
	if _, ok := metrics.Data.AspectMetrics["PRICE"]; !ok {
		t.Fatalf("aspect keys must be upper-cased: %+v", metrics.Data.AspectMetrics)
	}

	// reviews: platform=google returns exactly the google review
	var reviews struct {
		Meta struct {
			TotalFound int `json:"total_found"`
		} `json:"meta"`
		Data []struct {
			ReviewID int64 `json:"review_id"`
		} `json:"data"`
	}
	getJSON(t, ts.URL+"/api/batches/55/reviews?platform=google&sort=recent", &reviews)
	if reviews.Meta.TotalFound != 1 || len(reviews.Data) != 1 || reviews.Data[0].ReviewID != 302 {
		t.Fatalf("reviews: %+v", reviews)
	}

	// create a session, then read it back through an arbitrary id
	res, err := http.Post(ts.URL+"/api/batches/55/qc-sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("session status %d", res.StatusCode)
	}
	var created struct {
		Data struct {
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	res.Body.Close()
	if created.Data.SessionID == "" {
		t.Fatalf("empty session id")
	}

	var session struct {
		Meta struct {
			Progress struct {
				Total     int `json:"total"`
				Reviewed  int `json:"reviewed"`
				Remaining int `json:"remaining"`
			} `json:"progress"`
		} `json:"meta"`
		Items []struct {
			QCItemID int64  `json:"qc_item_id"`
			Status   string `json:"status"`
		} `json:"items"`
	}
	getJSON(t, ts.URL+"/api/qc-sessions/"+created.Data.SessionID, &session)
	if session.Meta.Progress.Total != 2 || session.Meta.Progress.Reviewed != 1 || session.Meta.Progress.Remaining != 1 {
		t.Fatalf("progress: %+v", session.Meta.Progress)
	}

	// patch item 1042, then verify nothing persisted
	body := bytes.NewBufferString(`{"correct_sentiment":"positive","confirmed":1}`)
	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/qc-items/1042", body)
	req.Header.Set("Content-Type", "application/json")
	pres, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	defer pres.Body.Close()
	var upd struct {
		Success bool `json:"success"`
		Data    struct {
			FinalSentiment string `json:"final_sentiment"`
			Status         string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(pres.Body).Decode(&upd); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if !upd.Success || upd.Data.FinalSentiment != "positive" || upd.Data.Status != "reviewed" {
		t.Fatalf("update: %+v", upd)
	}

	getJSON(t, ts.URL+"/api/qc-sessions/any", &session)
	for _, it := range session.Items {
		if it.QCItemID == 1042 && it.Status != "pending" {
			t.Fatalf("update must not persist, item 1042 is %q", it.Status)
		}
	}
	if session.Meta.Progress.Reviewed != 1 {
		t.Fatalf("reviewed count changed after discard-write update: %+v", session.Meta.Progress)
	}
}

func TestHTTP_EndToEnd_MissingFixturesDegrade(t *testing.T) {
	store := fixture.New(t.TempDir(), false, nil, 0)
	ts := newServer(t, store)

	var metrics struct {
		Data struct {
			PlatformCounts map[string]int            `json:"platform_counts"`
			AspectMetrics  map[string]map[string]int `json:"aspect_metrics"`
		} `json:"data"`
	}
	getJSON(t, ts.URL+"/api/batches/55/metrics", &metrics)
	if len(metrics.Data.PlatformCounts) != 0 || len(metrics.Data.AspectMetrics) != 0 {
		t.Fatalf("expected empty metrics: %+v", metrics.Data)
	}

	var reviews struct {
		Meta struct {
			TotalFound int `json:"total_found"`
		} `json:"meta"`
		Data []json.RawMessage `json:"data"`
	}
	getJSON(t, ts.URL+"/api/batches/55/reviews", &reviews)
	if reviews.Meta.TotalFound != 0 || len(reviews.Data) != 0 {
		t.Fatalf("expected empty reviews: %+v", reviews)
	}
}

func TestHTTP_EndToEnd_WithFixtureCache(t *testing.T) {
	dir := seedFixtures(t)
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	store := fixture.New(dir, false, cache, 60)
	ts := newServer(t, store)

	var first, second struct {
		Meta struct {
			TotalFound int `json:"total_found"`
		} `json:"meta"`
	}
	url := fmt.Sprintf("%s/api/batches/55/reviews?sort=recent&limit=10", ts.URL)
	getJSON(t, url, &first)

	// second request is served from the cached fixture bytes and must be
	// byte-for-byte equivalent in shape
	getJSON(t, url, &second)
	if first.Meta.TotalFound != second.Meta.TotalFound || first.Meta.TotalFound != 2 {
		t.Fatalf("cache changed results: %+v vs %+v", first, second)
	}
	if !mr.Exists("fixture:" + fixture.ReviewsFile) {
		t.Fatalf("expected cached fixture key in redis")
	}
}
