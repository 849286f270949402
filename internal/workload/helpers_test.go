package workload

import "github.com/example/capacity-planner/internal/profile"

func testProfile() profile.ResourceProfile {
	return profile.ResourceProfile{
		UserType:        profile.UserTypeEmployee,
		CommitmentRatio: 0.8,
		DailyCapacity:   profile.DailyCapacity{LightTaskSlots: 5, HeavyTaskSlots: 2, TotalWeightLimit: 12, ContinuousWorkHours: 3},
		TimeConstraints: profile.TimeConstraints{MaxWorkingHours: 8},
		WorkingPattern:  profile.WorkingPattern{FocusCapacity: profile.LevelMedium, MultitaskingAbility: 0.5},
		Preferences:     profile.Preferences{BreakFrequency: profile.LevelMedium},
	}
}
