package profile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/capacity-planner/internal/timeofday"
	"github.com/example/capacity-planner/internal/validation"
)

func validProfile() ResourceProfile {
	return ResourceProfile{
		UserID:          "user-1",
		UserType:        UserTypeEmployee,
		CommitmentRatio: 0.8,
		DailyCapacity: DailyCapacity{
			LightTaskSlots:      5,
			HeavyTaskSlots:      2,
			TotalWeightLimit:    12,
			ContinuousWorkHours: 3,
		},
		TimeConstraints: TimeConstraints{
			PreferredWorkHours: []string{"09:00-17:00"},
			MaxWorkingHours:    8,
		},
		WorkingPattern: WorkingPattern{
			ProductiveHours:     []string{"09:00-12:00"},
			FocusCapacity:       LevelMedium,
			MultitaskingAbility: 0.5,
		},
		PersonalConstraints: map[string][]string{"gym": {"18:00-19:00"}},
		Preferences:         Preferences{BreakFrequency: LevelMedium},
	}
}

func TestValidate_AcceptsBoundaries(t *testing.T) {
	t.Parallel()

	p := validProfile()
	p.CommitmentRatio = 0.1
	p.DailyCapacity = DailyCapacity{LightTaskSlots: 10, HeavyTaskSlots: 0, TotalWeightLimit: 25, ContinuousWorkHours: 12}
	p.TimeConstraints.MaxWorkingHours = 16
	p.WorkingPattern.MultitaskingAbility = 1

	if err := p.Validate(); err != nil {
		t.Fatalf("expected boundary values to be accepted, got %v", err)
	}
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ResourceProfile)
		field  string
	}{
		{"commitment below range", func(p *ResourceProfile) { p.CommitmentRatio = 0.05 }, "commitmentRatio"},
		{"commitment above range", func(p *ResourceProfile) { p.CommitmentRatio = 1.01 }, "commitmentRatio"},
		{"light slots zero", func(p *ResourceProfile) { p.DailyCapacity.LightTaskSlots = 0 }, "dailyCapacity.lightTaskSlots"},
		{"heavy slots too many", func(p *ResourceProfile) { p.DailyCapacity.HeavyTaskSlots = 6 }, "dailyCapacity.heavyTaskSlots"},
		{"weight limit too low", func(p *ResourceProfile) { p.DailyCapacity.TotalWeightLimit = 4 }, "dailyCapacity.totalWeightLimit"},
		{"continuous hours too high", func(p *ResourceProfile) { p.DailyCapacity.ContinuousWorkHours = 13 }, "dailyCapacity.continuousWorkHours"},
		{"max working hours too high", func(p *ResourceProfile) { p.TimeConstraints.MaxWorkingHours = 17 }, "timeConstraints.maxWorkingHours"},
		{"multitasking negative", func(p *ResourceProfile) { p.WorkingPattern.MultitaskingAbility = -0.1 }, "workingPattern.multitaskingAbility"},
		{"unknown user type", func(p *ResourceProfile) { p.UserType = "pilot" }, "userType"},
		{"unknown focus capacity", func(p *ResourceProfile) { p.WorkingPattern.FocusCapacity = "extreme" }, "workingPattern.focusCapacity"},
		{"malformed interval", func(p *ResourceProfile) { p.TimeConstraints.PreferredWorkHours = []string{"9am-5pm"} }, "timeConstraints.preferredWorkHours[0]"},
		{"inverted interval", func(p *ResourceProfile) { p.WorkingPattern.ProductiveHours = []string{"12:00-09:00"} }, "workingPattern.productiveHours[0]"},
		{"bad personal constraint", func(p *ResourceProfile) { p.PersonalConstraints["gym"] = []string{"25:00-26:00"} }, "personalConstraints.gym[0]"},
		{"unknown break frequency", func(p *ResourceProfile) { p.Preferences.BreakFrequency = "" }, "preferences.breakFrequency"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validProfile().Clone()
			tt.mutate(&p)
			err := p.Validate()
			vErr, ok := validation.As(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, exists := vErr.FieldErrors[tt.field]; !exists {
				t.Fatalf("expected field %q in %v", tt.field, vErr.FieldErrors)
			}
		})
	}
}

func TestValidate_DoesNotClamp(t *testing.T) {
	t.Parallel()

	p := validProfile()
	p.CommitmentRatio = 2
	_ = p.Validate()
	if p.CommitmentRatio != 2 {
		t.Fatalf("validation must not rewrite values, got %v", p.CommitmentRatio)
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	original := validProfile()
	clone := original.Clone()
	clone.TimeConstraints.PreferredWorkHours[0] = "10:00-11:00"
	clone.PersonalConstraints["gym"][0] = "06:00-07:00"

	if original.TimeConstraints.PreferredWorkHours[0] != "09:00-17:00" {
		t.Fatalf("clone shares preferred work hours with original")
	}
	if original.PersonalConstraints["gym"][0] != "18:00-19:00" {
		t.Fatalf("clone shares personal constraints with original")
	}
}

func TestPersonalConstraintMinutes(t *testing.T) {
	t.Parallel()

	p := validProfile()
	p.PersonalConstraints = map[string][]string{
		"gym":    {"18:00-19:00"},
		"school": {"18:30-19:30", "07:30-08:00"},
	}
	minutes, count := p.PersonalConstraintMinutes()
	if minutes != 120 {
		t.Fatalf("expected 120 merged minutes, got %d", minutes)
	}
	if count != 3 {
		t.Fatalf("expected 3 intervals, got %d", count)
	}
}

func TestBlockedIntervals(t *testing.T) {
	t.Parallel()

	p := validProfile()
	p.TimeConstraints.UnavailableHours = []string{"12:30-13:30", "not-an-interval"}
	p.PersonalConstraints = map[string][]string{
		"gym":    {"18:00-19:00"},
		"school": {"07:30-08:00", "13:00-14:00"},
	}
	want := []timeofday.Interval{
		{Start: timeofday.MustParse("07:30"), End: timeofday.MustParse("08:00")},
		{Start: timeofday.MustParse("12:30"), End: timeofday.MustParse("14:00")},
		{Start: timeofday.MustParse("18:00"), End: timeofday.MustParse("19:00")},
	}
	if diff := cmp.Diff(want, p.BlockedIntervals()); diff != "" {
		t.Fatalf("blocked intervals mismatch (-want +got):\n%s", diff)
	}
}

func TestPresets_AllValid(t *testing.T) {
	t.Parallel()

	for _, userType := range UserTypes {
		preset, err := Preset(userType)
		if err != nil {
			t.Fatalf("Preset(%s) returned error: %v", userType, err)
		}
		if preset.UserType != userType {
			t.Fatalf("Preset(%s) has user type %s", userType, preset.UserType)
		}
	}

	if _, err := Preset("astronaut"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestFromPreset_MergesOverrides(t *testing.T) {
	t.Parallel()

	got, err := FromPreset(UserTypeEmployee, []byte(`{"commitmentRatio":0.5,"dailyCapacity":{"heavyTaskSlots":1}}`))
	if err != nil {
		t.Fatalf("FromPreset returned error: %v", err)
	}
	if got.CommitmentRatio != 0.5 {
		t.Fatalf("expected override commitment ratio, got %v", got.CommitmentRatio)
	}
	if got.DailyCapacity.HeavyTaskSlots != 1 {
		t.Fatalf("expected override heavy slots, got %d", got.DailyCapacity.HeavyTaskSlots)
	}
	if got.DailyCapacity.LightTaskSlots != 6 {
		t.Fatalf("expected preset light slots to survive, got %d", got.DailyCapacity.LightTaskSlots)
	}

	again, err := Preset(UserTypeEmployee)
	if err != nil {
		t.Fatalf("Preset returned error: %v", err)
	}
	if again.CommitmentRatio != 0.8 {
		t.Fatalf("overrides leaked into the preset table: %v", again.CommitmentRatio)
	}
}

func TestFromPreset_RejectsInvalidOverrides(t *testing.T) {
	t.Parallel()

	_, err := FromPreset(UserTypeStudent, []byte(`{"commitmentRatio":3}`))
	if vErr, ok := validation.As(err); !ok || vErr.FieldErrors["commitmentRatio"] == "" {
		t.Fatalf("expected commitmentRatio validation error, got %v", err)
	}

	_, err = FromPreset(UserTypeStudent, []byte(`not json`))
	if vErr, ok := validation.As(err); !ok || vErr.FieldErrors["overrides"] == "" {
		t.Fatalf("expected overrides validation error, got %v", err)
	}

	_, err = FromPreset(UserTypeStudent, []byte(`{"userType":"parent"}`))
	if vErr, ok := validation.As(err); !ok || vErr.FieldErrors["userType"] == "" {
		t.Fatalf("expected userType validation error, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if Classify(2) != TaskClassLight {
		t.Fatalf("expected two hour task to be light")
	}
	if Classify(2.5) != TaskClassHeavy {
		t.Fatalf("expected 2.5 hour task to be heavy")
	}
	if TaskClassLight.Weight() != 1 || TaskClassHeavy.Weight() != 3 {
		t.Fatalf("unexpected class weights")
	}

	limit := DailyCapacity{LightTaskSlots: 1, HeavyTaskSlots: 1, TotalWeightLimit: 5}
	usage := Usage{}.Add(TaskClassHeavy)
	if usage.Fits(TaskClassHeavy, limit) {
		t.Fatalf("expected second heavy task to exceed heavy slots")
	}
	if !usage.Fits(TaskClassLight, limit) {
		t.Fatalf("expected light task to fit")
	}
	usage = usage.Add(TaskClassLight)
	if usage.Fits(TaskClassLight, limit) {
		t.Fatalf("expected light slots to be exhausted")
	}
	if usage.Weight != 4 {
		t.Fatalf("expected weight 4, got %d", usage.Weight)
	}
}
