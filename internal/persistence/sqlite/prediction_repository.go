package sqlite

import (
	"context"
	"fmt"

	"github.com/example/capacity-planner/internal/persistence"
)

var _ persistence.PredictionRepository = (*Storage)(nil)

// SavePrediction appends a prediction to the user's history.
func (s *Storage) SavePrediction(ctx context.Context, prediction persistence.Prediction) error {
	if prediction.ID == "" || prediction.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	const query = `
		INSERT INTO predictions (id, user_id, prediction_date, fingerprint, calculated_at, valid_until, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	return s.retry.WithRetry(ctx, func() error {
		_, err := s.pool.DB().ExecContext(ctx, query,
			prediction.ID,
			prediction.UserID,
			prediction.PredictionDate,
			prediction.Fingerprint,
			formatTime(prediction.CalculatedAt),
			formatTime(prediction.ValidUntil),
			string(prediction.Payload),
		)
		return err
	})
}

// CountPredictions reports how many predictions are stored for userID.
func (s *Storage) CountPredictions(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, s.mapper.MapError(err)
	}
	return count, nil
}

// LatestPrediction returns the most recently calculated prediction for userID.
func (s *Storage) LatestPrediction(ctx context.Context, userID string) (persistence.Prediction, error) {
	const query = `
		SELECT id, user_id, prediction_date, fingerprint, calculated_at, valid_until, payload
		FROM predictions
		WHERE user_id = ?
		ORDER BY calculated_at DESC, id DESC
		LIMIT 1`

	var (
		prediction               persistence.Prediction
		calculatedAt, validUntil string
		payload                  string
	)
	err := s.pool.DB().QueryRowContext(ctx, query, userID).Scan(
		&prediction.ID,
		&prediction.UserID,
		&prediction.PredictionDate,
		&prediction.Fingerprint,
		&calculatedAt,
		&validUntil,
		&payload,
	)
	if err != nil {
		return persistence.Prediction{}, s.mapper.MapError(err)
	}

	if prediction.CalculatedAt, err = parseTime(calculatedAt); err != nil {
		return persistence.Prediction{}, err
	}
	if prediction.ValidUntil, err = parseTime(validUntil); err != nil {
		return persistence.Prediction{}, fmt.Errorf("sqlite: prediction %s: %w", prediction.ID, err)
	}
	prediction.Payload = []byte(payload)
	return prediction, nil
}
