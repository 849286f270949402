package application

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/example/capacity-planner/internal/forecast"
)

const defaultPredictionCacheSize = 256

// predictionCache keeps recent forecasts keyed by the fingerprint of the
// snapshot they were projected from. Expired predictions are never served.
type predictionCache struct {
	now     func() time.Time
	entries *lru.Cache[string, forecast.FuturePrediction]
}

func newPredictionCache(size int, now func() time.Time) (*predictionCache, error) {
	if size <= 0 {
		size = defaultPredictionCacheSize
	}
	if now == nil {
		now = time.Now
	}
	entries, err := lru.New[string, forecast.FuturePrediction](size)
	if err != nil {
		return nil, fmt.Errorf("prediction cache: %w", err)
	}
	return &predictionCache{now: now, entries: entries}, nil
}

func (c *predictionCache) Get(key string) (forecast.FuturePrediction, bool) {
	if c == nil {
		return forecast.FuturePrediction{}, false
	}
	prediction, ok := c.entries.Get(key)
	if !ok {
		return forecast.FuturePrediction{}, false
	}
	if prediction.Expired(c.now()) {
		c.entries.Remove(key)
		return forecast.FuturePrediction{}, false
	}
	return clonePrediction(prediction), true
}

func (c *predictionCache) Store(key string, prediction forecast.FuturePrediction) {
	if c == nil {
		return
	}
	c.entries.Add(key, clonePrediction(prediction))
}

func (c *predictionCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *predictionCache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}

// snapshotFingerprint hashes everything the projection reads except the
// history count, so a forecast stays cacheable while history accumulates.
func snapshotFingerprint(s forecast.Snapshot) (string, error) {
	payload, err := json.Marshal(struct {
		UserID         string
		Profile        any
		Parameters     forecast.Parameters
		PredictionDate string
		Loads          []forecast.DailyLoad
	}{
		UserID:         s.UserID,
		Profile:        s.Profile,
		Parameters:     s.Parameters,
		PredictionDate: s.PredictionDate.Format(time.RFC3339),
		Loads:          s.Loads,
	})
	if err != nil {
		return "", fmt.Errorf("fingerprint snapshot: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func clonePrediction(p forecast.FuturePrediction) forecast.FuturePrediction {
	out := p
	out.WeeklyCapacityPrediction = slices.Clone(p.WeeklyCapacityPrediction)
	for i := range out.WeeklyCapacityPrediction {
		w := &out.WeeklyCapacityPrediction[i]
		w.DailyBreakdown = slices.Clone(w.DailyBreakdown)
		for j := range w.DailyBreakdown {
			w.DailyBreakdown[j].TaskIDs = slices.Clone(w.DailyBreakdown[j].TaskIDs)
		}
		w.RiskDays = slices.Clone(w.RiskDays)
		w.CriticalDays = slices.Clone(w.CriticalDays)
		w.RecommendedActions = slices.Clone(w.RecommendedActions)
		w.AdjustmentSuggestions.TasksToMoveEarlier = slices.Clone(w.AdjustmentSuggestions.TasksToMoveEarlier)
		w.AdjustmentSuggestions.TasksToDefer = slices.Clone(w.AdjustmentSuggestions.TasksToDefer)
		w.AdjustmentSuggestions.OptimalWorkDays = slices.Clone(w.AdjustmentSuggestions.OptimalWorkDays)
	}
	out.MonthlyTrends = slices.Clone(p.MonthlyTrends)
	out.Recommendations = slices.Clone(p.Recommendations)
	for i := range out.Recommendations {
		out.Recommendations[i].RelatedTaskIDs = slices.Clone(out.Recommendations[i].RelatedTaskIDs)
	}
	return out
}
