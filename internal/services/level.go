package services

// Level derivation is a staircase: level 1 starts with a 100 XP
// threshold and each level costs 15 XP more than the last. The exact
// thresholds (100, 115, 130, ...) are relied on by profile and
// leaderboard rendering, so they must not drift.
const (
	levelBaseThreshold = 100
	levelThresholdStep = 15
)

// ComputeLevel returns the level for cumulative XP, the XP already
// earned within the current level, and the XP cost of the next level.
func ComputeLevel(experience int) (level, remaining, nextThreshold int) {
	if experience < 0 {
		experience = 0
	}
	level = 1
	threshold := levelBaseThreshold
	for experience >= threshold {
		level++
		experience -= threshold
		threshold += levelThresholdStep
	}
	return level, experience, threshold
}
