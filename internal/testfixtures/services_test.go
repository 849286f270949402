package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/forecast"
	"github.com/example/capacity-planner/internal/persistence"
)

type capturingPredictionRepo struct {
	saved []persistence.Prediction
}

func (c *capturingPredictionRepo) SavePrediction(ctx context.Context, p persistence.Prediction) error {
	c.saved = append(c.saved, p)
	return nil
}

func (c *capturingPredictionRepo) CountPredictions(ctx context.Context, userID string) (int, error) {
	return len(c.saved), nil
}

func (c *capturingPredictionRepo) LatestPrediction(ctx context.Context, userID string) (persistence.Prediction, error) {
	if len(c.saved) == 0 {
		return persistence.Prediction{}, persistence.ErrNotFound
	}
	return c.saved[len(c.saved)-1], nil
}

func TestServiceFactoryNewForecastService(t *testing.T) {
	factory := NewServiceFactory()
	repo := &capturingPredictionRepo{}

	svc := factory.NewForecastService(ForecastServiceDeps{Predictions: repo})
	p := NewProfile("user-1")

	prediction, err := svc.Forecast(context.Background(), application.ForecastParams{
		UserID:     "user-1",
		Profile:    &p,
		Parameters: forecast.Parameters{ForecastPeriod: 1},
	})
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("expected one recorded prediction, got %d", len(repo.saved))
	}
	if repo.saved[0].ID != "prediction-1" {
		t.Fatalf("expected generated ID prediction-1, got %q", repo.saved[0].ID)
	}
	if !prediction.CalculatedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected calculatedAt %v, got %v", factory.Clock.Now(), prediction.CalculatedAt)
	}
	if got := prediction.PredictionDate.Format(time.DateOnly); got != ReferenceDate() {
		t.Fatalf("expected prediction date %s, got %s", ReferenceDate(), got)
	}
}

func TestServiceFactoryNewProfileService(t *testing.T) {
	factory := NewServiceFactory()
	harness := NewSQLiteHarness(t)

	svc := factory.NewProfileService(harness.Profiles, nil)
	saved, err := svc.SaveProfile(context.Background(), "user-1", NewProfile(""))
	if err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	if saved.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", saved.UserID)
	}

	record, err := harness.Profiles.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if !record.UpdatedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Now(), record.UpdatedAt)
	}
}
