package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/profile"
	"github.com/example/capacity-planner/internal/testfixtures"
	"github.com/example/capacity-planner/internal/validation"
)

func TestProfileService_SaveAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	factory := testfixtures.NewServiceFactory()
	db := testfixtures.NewSQLiteHarness(t)
	service := factory.NewProfileService(db.Profiles, nil)

	input := testfixtures.NewProfile("ignored", testfixtures.WithMaxWorkingHours(7.5))
	saved, err := service.SaveProfile(ctx, " user-1 ", input)
	if err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if saved.UserID != "user-1" {
		t.Fatalf("expected trimmed user id, got %q", saved.UserID)
	}

	loaded, err := service.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("stored profile differs (-saved +loaded):\n%s", diff)
	}

	record, err := db.Profiles.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("repository GetProfile failed: %v", err)
	}
	if !record.CreatedAt.Equal(testfixtures.ReferenceTime()) {
		t.Fatalf("expected created_at from the injected clock, got %v", record.CreatedAt)
	}

	factory.Clock.Advance(time.Hour)
	input.CommitmentRatio = 0.5
	if _, err := service.SaveProfile(ctx, "user-1", input); err != nil {
		t.Fatalf("second SaveProfile failed: %v", err)
	}
	record, err = db.Profiles.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("repository GetProfile failed: %v", err)
	}
	if !record.CreatedAt.Equal(testfixtures.ReferenceTime()) || !record.UpdatedAt.Equal(testfixtures.ReferenceTime().Add(time.Hour)) {
		t.Fatalf("unexpected timestamps after update: %v / %v", record.CreatedAt, record.UpdatedAt)
	}
}

func TestProfileService_RejectsOutOfRangeValues(t *testing.T) {
	t.Parallel()

	db := testfixtures.NewSQLiteHarness(t)
	service := testfixtures.NewServiceFactory().NewProfileService(db.Profiles, nil)

	invalid := testfixtures.NewProfile("user-1", testfixtures.WithDailyCapacity(11, 6, 30))
	_, err := service.SaveProfile(context.Background(), "", invalid)
	vErr, ok := validation.As(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"userId", "dailyCapacity.lightTaskSlots", "dailyCapacity.heavyTaskSlots", "dailyCapacity.totalWeightLimit"} {
		if _, exists := vErr.FieldErrors[field]; !exists {
			t.Fatalf("expected field error for %s, got %#v", field, vErr.FieldErrors)
		}
	}

	if _, err := service.GetProfile(context.Background(), "user-1"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("rejected profiles must not be stored, got %v", err)
	}
}

func TestProfileService_ApplyPreset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testfixtures.NewSQLiteHarness(t)
	service := testfixtures.NewServiceFactory().NewProfileService(db.Profiles, nil)

	result, err := service.ApplyPreset(ctx, "user-1", profile.UserTypeEmployee, []byte(`{"timeConstraints":{"maxWorkingHours":10}}`))
	if err != nil {
		t.Fatalf("ApplyPreset failed: %v", err)
	}
	preset, err := profile.Preset(profile.UserTypeEmployee)
	if err != nil {
		t.Fatalf("Preset failed: %v", err)
	}
	if result.TimeConstraints.MaxWorkingHours != 10 {
		t.Fatalf("expected override to apply, got %v", result.TimeConstraints.MaxWorkingHours)
	}
	if result.DailyCapacity != preset.DailyCapacity {
		t.Fatalf("expected preset capacity to survive, got %#v", result.DailyCapacity)
	}

	profiles, err := service.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0].UserID != "user-1" {
		t.Fatalf("unexpected profiles: %#v", profiles)
	}

	_, err = service.ApplyPreset(ctx, "user-1", profile.UserType("astronaut"), nil)
	vErr, ok := validation.As(err)
	if !ok || vErr.FieldErrors["userType"] == "" {
		t.Fatalf("expected userType validation error, got %v", err)
	}
}

func TestProfileService_WithoutRepository(t *testing.T) {
	t.Parallel()

	service := application.NewProfileService(nil, nil)
	if _, err := service.GetProfile(context.Background(), "user-1"); !errors.Is(err, application.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	var nilService *application.ProfileService
	if _, err := nilService.GetProfile(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected error from nil service")
	}
}

func TestProfileService_DeleteProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testfixtures.NewSQLiteHarness(t)
	service := testfixtures.NewServiceFactory().NewProfileService(db.Profiles, nil)

	if _, err := service.SaveProfile(ctx, "user-1", testfixtures.NewProfile("")); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := service.DeleteProfile(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	if _, err := service.GetProfile(ctx, "user-1"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := service.DeleteProfile(ctx, "user-1"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
	if _, ok := validation.As(service.DeleteProfile(ctx, "  ")); !ok {
		t.Fatalf("expected validation error for blank user id")
	}
}
