// fixturegen writes the two fixture files the API serves. The data is
// synthetic but stable for a given seed, so regenerated fixtures keep the
// anchors the dashboard and tests rely on (platforms youtube/google/shopee,
// QC item 1042 predicted neutral).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"sentiment_qc/internal/adapters/observability"
	"sentiment_qc/internal/domain"
	"sentiment_qc/internal/shared"
	"sentiment_qc/internal/storage/fixture"
)

var (
	platforms  = []string{"youtube", "google", "shopee"}
	aspects    = []string{"taste", "price", "service", "delivery"}
	sentiments = []string{domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral}

	snippets = map[string][]string{
		"positive": {"Loved it, will order again.", "Really tasty and worth the money.", "Arrived fast and fresh."},
		"negative": {"Portion was tiny for the price.", "Cold on arrival, disappointing.", "Too salty for my taste."},
		"neutral":  {"It was okay, nothing special.", "Average food, average service.", "Fine but I expected more."},
	}
)

func main() {
	out := flag.String("out", "fixtures", "output directory")
	n := flag.Int("reviews", 30, "number of reviews to generate")
	seed := flag.Int64("seed", 55, "rng seed")
	flag.Parse()

	log.Logger = observability.NewLogger(shared.Load().AppEnv)
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal().Err(err).Msg("mkdir failed")
	}

	reviews := genReviews(rng, *n)
	items := genQCItems(rng, reviews)

	writeJSON(filepath.Join(*out, fixture.ReviewsFile), reviews)
	writeJSON(filepath.Join(*out, fixture.QCItemsFile), items)

	log.Info().Int("reviews", len(reviews)).Int("qc_items", len(items)).Str("dir", *out).Msg("fixtures written")
}

func genReviews(rng *rand.Rand, n int) []domain.Review {
	out := make([]domain.Review, 0, n)
	for i := 0; i < n; i++ {
		sentiment := sentiments[rng.Intn(len(sentiments))]
		results := map[string]domain.AspectResult{}
		for _, a := range pick(rng, aspects, 1+rng.Intn(3)) {
			results[a] = domain.AspectResult{
				Sentiment:  sentiments[rng.Intn(len(sentiments))],
				Confidence: round2(0.4 + rng.Float64()*0.6),
			}
		}
		out = append(out, domain.Review{
			ReviewID:       int64(301 + i),
			SourcePlatform: platforms[rng.Intn(len(platforms))],
			ReviewDate:     fmt.Sprintf("2024-%02d-%02d", 1+rng.Intn(12), 1+rng.Intn(28)),
			Content:        snippets[sentiment][rng.Intn(len(snippets[sentiment]))],
			Results:        results,
		})
	}
	return out
}

// genQCItems builds 12 items: 8 low-confidence picks and 4 random audits,
// matching the session breakdown the API reports. Item 1042 always lands on
// a neutral prediction.
func genQCItems(rng *rand.Rand, reviews []domain.Review) []domain.QCItem {
	out := make([]domain.QCItem, 0, 12)
	for i := 0; i < 12 && i < len(reviews); i++ {
		r := reviews[rng.Intn(len(reviews))]
		aspect := aspects[rng.Intn(len(aspects))]
		item := domain.QCItem{
			QCItemID:           int64(1035 + i),
			ReviewID:           r.ReviewID,
			ReviewContent:      r.Content,
			Aspect:             aspect,
			PredictedSentiment: sentiments[rng.Intn(len(sentiments))],
			Confidence:         round2(0.4 + rng.Float64()*0.3),
			SentimentGap:       round2(rng.Float64() * 0.5),
			Status:             domain.QCStatusPending,
		}
		if i >= 8 {
			// random-audit bucket: confidence can be anything
			item.Confidence = round2(0.4 + rng.Float64()*0.6)
		}
		if item.QCItemID == 1042 {
			item.PredictedSentiment = domain.SentimentNeutral
		}
		if i%4 == 3 && item.QCItemID != 1042 {
			item.Status = domain.QCStatusReviewed
		}
		out = append(out, item)
	}
	return out
}

func pick(rng *rand.Rand, src []string, n int) []string {
	idx := rng.Perm(len(src))
	if n > len(src) {
		n = len(src)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, src[i])
	}
	return out
}

func round2(f float64) float64 { return float64(int(f*100)) / 100 }

func writeJSON(path string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("marshal failed")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("write failed")
	}
}
