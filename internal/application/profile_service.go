package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/capacity-planner/internal/persistence"
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/validation"
)

// ProfileService validates and stores resource profiles.
type ProfileService struct {
	profiles persistence.ProfileRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewProfileService constructs a profile service with the provided dependencies.
func NewProfileService(profiles persistence.ProfileRepository, now func() time.Time) *ProfileService {
	return NewProfileServiceWithLogger(profiles, now, nil)
}

// NewProfileServiceWithLogger constructs a profile service with a specified logger.
func NewProfileServiceWithLogger(profiles persistence.ProfileRepository, now func() time.Time, logger *slog.Logger) *ProfileService {
	if now == nil {
		now = time.Now
	}
	return &ProfileService{profiles: profiles, now: now, logger: defaultLogger(logger)}
}

func (s *ProfileService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProfileService", operation, attrs...)
}

// GetProfile returns the stored profile for userID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (result profile.ResourceProfile, err error) {
	if s == nil {
		err = fmt.Errorf("ProfileService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetProfile", "user_id", userID)
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			logger.ErrorContext(ctx, "failed to load profile", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		err = validation.Field("userId", "is required")
		return
	}
	if s.profiles == nil {
		err = ErrNotConfigured
		return
	}

	record, repoErr := s.profiles.GetProfile(ctx, userID)
	if repoErr != nil {
		err = mapProfileRepoError(repoErr)
		return
	}
	result, err = decodeProfile(record)
	return
}

// SaveProfile validates p and stores it as userID's profile. Out-of-range
// values are rejected, never clamped.
func (s *ProfileService) SaveProfile(ctx context.Context, userID string, p profile.ResourceProfile) (result profile.ResourceProfile, err error) {
	if s == nil {
		err = fmt.Errorf("ProfileService is nil")
		return
	}

	logger := s.loggerWith(ctx, "SaveProfile", "user_id", userID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to save profile", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "profile saved", "user_type", result.UserType)
	}()

	userID = strings.TrimSpace(userID)
	vErr := validation.New()
	if userID == "" {
		vErr.Add("userId", "is required")
	}
	if pErr, ok := validation.As(p.Validate()); ok {
		vErr.Merge(pErr)
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	result = p.Clone()
	result.UserID = userID
	err = s.store(ctx, result)
	return
}

// ApplyPreset builds userID's profile from the userType preset merged with
// the JSON overrides and stores it.
func (s *ProfileService) ApplyPreset(ctx context.Context, userID string, userType profile.UserType, overrides []byte) (result profile.ResourceProfile, err error) {
	if s == nil {
		err = fmt.Errorf("ProfileService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ApplyPreset", "user_id", userID, "user_type", userType)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to apply preset", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "preset applied")
	}()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		err = validation.Field("userId", "is required")
		return
	}

	built, buildErr := profile.FromPreset(userType, overrides)
	if buildErr != nil {
		if errors.Is(buildErr, profile.ErrUnknownPreset) {
			err = validation.Field("userType", "unknown user type")
			return
		}
		err = buildErr
		return
	}

	result = built
	result.UserID = userID
	err = s.store(ctx, result)
	return
}

// DeleteProfile removes userID's stored profile.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID string) (err error) {
	if s == nil {
		return fmt.Errorf("ProfileService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteProfile", "user_id", userID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete profile", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "profile deleted")
	}()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return validation.Field("userId", "is required")
	}
	if s.profiles == nil {
		return ErrNotConfigured
	}
	return mapProfileRepoError(s.profiles.DeleteProfile(ctx, userID))
}

// ListProfiles returns every stored profile ordered by user ID.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]profile.ResourceProfile, error) {
	if s == nil {
		return nil, fmt.Errorf("ProfileService is nil")
	}
	if s.profiles == nil {
		return nil, ErrNotConfigured
	}

	records, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListProfiles").ErrorContext(ctx, "failed to list profiles", "error", err)
		return nil, err
	}

	profiles := make([]profile.ResourceProfile, 0, len(records))
	for _, record := range records {
		p, err := decodeProfile(record)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *ProfileService) store(ctx context.Context, p profile.ResourceProfile) error {
	if s.profiles == nil {
		return ErrNotConfigured
	}

	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	now := s.now()
	record := persistence.Profile{
		UserID:    p.UserID,
		UserType:  string(p.UserType),
		Document:  document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.UpsertProfile(ctx, record); err != nil {
		return mapProfileRepoError(err)
	}
	return nil
}

func decodeProfile(record persistence.Profile) (profile.ResourceProfile, error) {
	var p profile.ResourceProfile
	if err := json.Unmarshal(record.Document, &p); err != nil {
		return profile.ResourceProfile{}, fmt.Errorf("decode profile %s: %w", record.UserID, err)
	}
	p.UserID = record.UserID
	return p, nil
}

func mapProfileRepoError(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
