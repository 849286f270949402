package profile

// TaskClass says which daily slot pool a task draws from.
type TaskClass string

const (
	TaskClassLight TaskClass = "light"
	TaskClassHeavy TaskClass = "heavy"
)

// LightTaskMaxHours is the largest estimate still treated as a light task.
const LightTaskMaxHours = 2.0

// DefaultTaskHours is assumed for tasks that carry no estimate.
const DefaultTaskHours = 1.0

// Classify maps an hour estimate onto a slot class. Estimates up to two hours
// are light; anything longer is heavy.
func Classify(estimatedHours float64) TaskClass {
	if estimatedHours <= LightTaskMaxHours {
		return TaskClassLight
	}
	return TaskClassHeavy
}

// Weight is the capacity weight a task of this class consumes.
func (c TaskClass) Weight() int {
	if c == TaskClassHeavy {
		return 3
	}
	return 1
}

// Usage tracks slot and weight consumption against a DailyCapacity.
type Usage struct {
	Light  int
	Heavy  int
	Weight int
}

// Fits reports whether one more task of the given class stays within limit.
func (u Usage) Fits(class TaskClass, limit DailyCapacity) bool {
	if u.Weight+class.Weight() > limit.TotalWeightLimit {
		return false
	}
	if class == TaskClassHeavy {
		return u.Heavy+1 <= limit.HeavyTaskSlots
	}
	return u.Light+1 <= limit.LightTaskSlots
}

// Add returns the usage after consuming one task of the given class.
func (u Usage) Add(class TaskClass) Usage {
	if class == TaskClassHeavy {
		u.Heavy++
	} else {
		u.Light++
	}
	u.Weight += class.Weight()
	return u
}
