package profile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/example/capacity-planner/internal/validation"
)

// ErrUnknownPreset is returned when no preset exists for a user type.
var ErrUnknownPreset = errors.New("profile: unknown preset")

//go:embed presets.yaml
var presetSource []byte

var (
	presetsOnce sync.Once
	presets     map[UserType]ResourceProfile
	presetsErr  error
)

func loadPresets() (map[UserType]ResourceProfile, error) {
	presetsOnce.Do(func() {
		decoded := make(map[UserType]ResourceProfile)
		if err := yaml.Unmarshal(presetSource, &decoded); err != nil {
			presetsErr = fmt.Errorf("profile: decode presets: %w", err)
			return
		}
		for userType, preset := range decoded {
			if err := preset.Validate(); err != nil {
				presetsErr = fmt.Errorf("profile: preset %s: %w", userType, err)
				return
			}
		}
		presets = decoded
	})
	return presets, presetsErr
}

// Preset returns a copy of the baseline profile for userType.
func Preset(userType UserType) (ResourceProfile, error) {
	all, err := loadPresets()
	if err != nil {
		return ResourceProfile{}, err
	}
	preset, ok := all[userType]
	if !ok {
		return ResourceProfile{}, fmt.Errorf("%w: %q", ErrUnknownPreset, userType)
	}
	return preset.Clone(), nil
}

// FromPreset builds a profile from the userType preset with overrides merged
// on top. Overrides are a partial JSON profile document: fields it names
// replace the preset value, absent fields keep it. The merged result must
// pass Validate.
func FromPreset(userType UserType, overrides []byte) (ResourceProfile, error) {
	base, err := Preset(userType)
	if err != nil {
		return ResourceProfile{}, err
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &base); err != nil {
			return ResourceProfile{}, validation.Field("overrides", "must be a JSON object")
		}
	}
	if base.UserType != userType {
		return ResourceProfile{}, validation.Field("userType", "cannot differ from preset")
	}
	if err := base.Validate(); err != nil {
		return ResourceProfile{}, err
	}
	return base, nil
}
