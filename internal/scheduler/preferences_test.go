package scheduler

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/capacity-planner/internal/profile"
)

func TestPreferencesFromProfile(t *testing.T) {
	t.Parallel()

	base := profile.ResourceProfile{
		DailyCapacity: profile.DailyCapacity{LightTaskSlots: 4, HeavyTaskSlots: 1, TotalWeightLimit: 8, ContinuousWorkHours: 2},
		WorkingPattern: profile.WorkingPattern{
			FocusCapacity: profile.LevelMedium,
		},
		Preferences: profile.Preferences{BreakFrequency: profile.LevelMedium},
	}

	tests := []struct {
		name   string
		mutate func(*profile.ResourceProfile)
		want   Preferences
	}{
		{
			name:   "defaults",
			mutate: func(*profile.ResourceProfile) {},
			want: Preferences{
				WorkStartTime: "09:00", WorkEndTime: "17:00", LunchTime: "12:00",
				FocusBlocks: true, BreakInterval: 90, PersonalityType: PersonalityBalanced,
			},
		},
		{
			name: "early start and late work",
			mutate: func(p *profile.ResourceProfile) {
				p.Preferences.EarlyStart = true
				p.Preferences.LateWork = true
				p.Preferences.BreakFrequency = profile.LevelHigh
				p.WorkingPattern.FocusCapacity = profile.LevelLow
			},
			want: Preferences{
				WorkStartTime: "07:00", WorkEndTime: "20:00", LunchTime: "12:00",
				FocusBlocks: false, BreakInterval: 60, PersonalityType: PersonalityBalanced,
			},
		},
		{
			name: "preferred hours and morning productivity",
			mutate: func(p *profile.ResourceProfile) {
				p.Preferences.EarlyStart = true
				p.TimeConstraints.PreferredWorkHours = []string{"08:30-16:30", "18:00-19:00"}
				p.WorkingPattern.ProductiveHours = []string{"08:00-10:00"}
				p.Preferences.BreakFrequency = profile.LevelLow
			},
			want: Preferences{
				WorkStartTime: "08:30", WorkEndTime: "16:30", LunchTime: "12:00",
				FocusBlocks: true, BreakInterval: 120, PersonalityType: PersonalityMorning,
			},
		},
		{
			name: "afternoon productivity",
			mutate: func(p *profile.ResourceProfile) {
				p.WorkingPattern.ProductiveHours = []string{"13:00-18:00"}
			},
			want: Preferences{
				WorkStartTime: "09:00", WorkEndTime: "17:00", LunchTime: "12:00",
				FocusBlocks: true, BreakInterval: 90, PersonalityType: PersonalityAfternoon,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := base.Clone()
			tt.mutate(&p)
			got := PreferencesFromProfile(p)
			if got.DailyCapacity == nil || *got.DailyCapacity != p.DailyCapacity {
				t.Fatalf("expected daily capacity to be carried over, got %+v", got.DailyCapacity)
			}
			got.DailyCapacity = nil
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("preferences mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPreferencesFromProfile_GeneratesForEveryPreset(t *testing.T) {
	t.Parallel()

	generator := newTestGenerator()
	for _, userType := range profile.UserTypes {
		p, err := profile.Preset(userType)
		if err != nil {
			t.Fatalf("Preset(%s) returned error: %v", userType, err)
		}
		if _, err := generator.Generate(GenerateRequest{Preferences: PreferencesFromProfile(p), Date: testDate}); err != nil {
			t.Fatalf("Generate with %s preferences returned error: %v", userType, err)
		}
	}
}
