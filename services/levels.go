package services

import "math"

// LevelCurve maps cumulative experience to levels. The base experience unit is
// injected from configuration so the curve can be tuned per deployment.
type LevelCurve struct {
	baseExp int
}

// NewLevelCurve creates a curve with the given base experience per level.
func NewLevelCurve(baseExp int) LevelCurve {
	if baseExp <= 0 {
		baseExp = 100
	}
	return LevelCurve{baseExp: baseExp}
}

// ExperienceRequiredForLevel returns the experience needed to go from
// level-1 to level: floor(baseExp * level^1.5). level must be >= 1.
func (c LevelCurve) ExperienceRequiredForLevel(level int) int {
	return int(math.Floor(float64(c.baseExp) * math.Pow(float64(level), 1.5)))
}

// LevelFromExperience returns the highest level fully affordable with the
// given cumulative experience. Non-positive experience maps to level 1.
func (c LevelCurve) LevelFromExperience(totalExperience int) int {
	if totalExperience <= 0 {
		return 1
	}
	level := 1
	cumulative := 0
	for {
		next := cumulative + c.ExperienceRequiredForLevel(level+1)
		if totalExperience < next {
			return level
		}
		cumulative = next
		level++
	}
}

// cumulativeExperienceForLevel returns the total experience needed to reach
// the given level from level 1.
func (c LevelCurve) cumulativeExperienceForLevel(level int) int {
	total := 0
	for l := 2; l <= level; l++ {
		total += c.ExperienceRequiredForLevel(l)
	}
	return total
}

// ExperienceToNextLevel returns how much experience is still missing to reach
// level+1 given the user's current level and cumulative experience.
func (c LevelCurve) ExperienceToNextLevel(level, experience int) int {
	remaining := c.cumulativeExperienceForLevel(level+1) - experience
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LevelProgressPercent returns the percentage of the current level band
// already covered by the user's cumulative experience, clamped to [0, 100].
func (c LevelCurve) LevelProgressPercent(level, experience int) float64 {
	floor := c.cumulativeExperienceForLevel(level)
	band := c.ExperienceRequiredForLevel(level + 1)
	if band <= 0 {
		return 0
	}
	pct := float64(experience-floor) / float64(band) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
