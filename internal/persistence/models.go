package persistence

import "time"

// Profile is a stored resource profile. Document holds the profile encoded as JSON.
type Profile struct {
	UserID    string
	UserType  string
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Prediction is one forecast run kept as history for accuracy reporting.
type Prediction struct {
	ID             string
	UserID         string
	PredictionDate string
	Fingerprint    string
	CalculatedAt   time.Time
	ValidUntil     time.Time
	Payload        []byte
}
