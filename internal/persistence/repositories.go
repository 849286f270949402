package persistence

import "context"

// ProfileRepository stores resource profiles keyed by user.
type ProfileRepository interface {
	UpsertProfile(ctx context.Context, profile Profile) error
	GetProfile(ctx context.Context, userID string) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// PredictionRepository stores forecast history.
type PredictionRepository interface {
	SavePrediction(ctx context.Context, prediction Prediction) error
	CountPredictions(ctx context.Context, userID string) (int, error)
	LatestPrediction(ctx context.Context, userID string) (Prediction, error)
}
