package progression

// Action is one completed user action fed to the mission tracker.
// Magnitude is the contribution the action makes to matching
// missions: 1 for counting missions, or an amount (e.g. XP earned)
// for accumulating ones.
type Action struct {
	Kind      Requirement
	Magnitude uint32
}

// MissionInstance is the flattened view of one user's mission for the
// current day, joining the user_missions row with its template. The
// repository builds these; AdvanceMissions mutates only the progress
// fields.
type MissionInstance struct {
	ID               uint64
	TemplateID       uint64
	Name             string
	Icon             string
	Requirement      Requirement
	RequirementValue uint32
	XPReward         uint32
	CurrentProgress  uint32
	IsCompleted      bool
}

// MissionResult reports which instances changed. NewlyCompleted
// contains each mission at most once ever: a mission that was already
// completed is never advanced again, so its reward cannot be issued
// twice even if a duplicate event arrives.
type MissionResult struct {
	Updated        []MissionInstance
	NewlyCompleted []MissionInstance
}

// AdvanceMissions applies one action against today's mission
// instances. Instances whose requirement does not match the action
// kind are untouched. Progress is capped at the requirement value;
// crossing it flips IsCompleted exactly once and reports the instance
// in NewlyCompleted so the caller can grant XPReward in the same
// transaction.
func AdvanceMissions(instances []MissionInstance, action Action) MissionResult {
	var res MissionResult
	if action.Magnitude == 0 {
		return res
	}
	for _, inst := range instances {
		if inst.IsCompleted || inst.Requirement != action.Kind {
			continue
		}
		inst.CurrentProgress += action.Magnitude
		if inst.CurrentProgress >= inst.RequirementValue {
			inst.CurrentProgress = inst.RequirementValue
			inst.IsCompleted = true
			res.NewlyCompleted = append(res.NewlyCompleted, inst)
		}
		res.Updated = append(res.Updated, inst)
	}
	return res
}
