package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperienceRequiredIsMonotonic(t *testing.T) {
	curve := NewLevelCurve(100)
	prev := 0
	for level := 1; level <= 50; level++ {
		required := curve.ExperienceRequiredForLevel(level)
		assert.Greater(t, required, prev, "level %d", level)
		prev = required
	}
}

func TestExperienceRequiredKnownValues(t *testing.T) {
	curve := NewLevelCurve(100)
	assert.Equal(t, 100, curve.ExperienceRequiredForLevel(1))
	assert.Equal(t, 282, curve.ExperienceRequiredForLevel(2))
	assert.Equal(t, 519, curve.ExperienceRequiredForLevel(3))
}

func TestLevelFromExperienceBoundaries(t *testing.T) {
	curve := NewLevelCurve(100)

	assert.Equal(t, 1, curve.LevelFromExperience(0))
	assert.Equal(t, 1, curve.LevelFromExperience(-5))

	// Level 2 starts at 282 cumulative, level 3 at 282+519=801.
	assert.Equal(t, 1, curve.LevelFromExperience(281))
	assert.Equal(t, 2, curve.LevelFromExperience(282))
	assert.Equal(t, 2, curve.LevelFromExperience(800))
	assert.Equal(t, 3, curve.LevelFromExperience(801))
}

func TestLevelRoundTrip(t *testing.T) {
	curve := NewLevelCurve(100)
	for level := 1; level <= 20; level++ {
		exp := curve.cumulativeExperienceForLevel(level)
		assert.Equal(t, level, curve.LevelFromExperience(exp), "at exact boundary of level %d", level)
		if exp > 0 {
			assert.Equal(t, level-1, curve.LevelFromExperience(exp-1), "just below boundary of level %d", level)
		}
	}
}

func TestExperienceToNextLevel(t *testing.T) {
	curve := NewLevelCurve(100)

	assert.Equal(t, 282, curve.ExperienceToNextLevel(1, 0))
	assert.Equal(t, 182, curve.ExperienceToNextLevel(1, 100))
	assert.Equal(t, 0, curve.ExperienceToNextLevel(1, 282))
}

func TestLevelProgressPercentClamped(t *testing.T) {
	curve := NewLevelCurve(100)

	assert.Equal(t, 0.0, curve.LevelProgressPercent(1, 0))
	assert.Equal(t, 100.0, curve.LevelProgressPercent(1, 100000))
	assert.Equal(t, 0.0, curve.LevelProgressPercent(5, 0))

	mid := curve.LevelProgressPercent(1, 141)
	assert.InDelta(t, 50.0, mid, 1.0)
}

func TestDefaultBaseExperience(t *testing.T) {
	curve := NewLevelCurve(0)
	assert.Equal(t, 100, curve.ExperienceRequiredForLevel(1))
}
