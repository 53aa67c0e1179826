package domain

import "sort"

// IsUnlocked reports whether the user holds the given achievement. Nothing
// else in the system computes unlock status differently.
func IsUnlocked(user User, achievementID string) bool {
	for _, id := range user.Achievements {
		if id == achievementID {
			return true
		}
	}
	return false
}

// Leader returns the id of the team's leader: the first-listed member.
// Returns "" for a memberless team (only possible off the leaderboard).
func (t Team) Leader() string {
	if len(t.Members) == 0 {
		return ""
	}
	return t.Members[0]
}

// IsLeader reports whether userID occupies position 0 of the member list.
func (t Team) IsLeader(userID string) bool {
	return userID != "" && t.Leader() == userID
}

// SortByScore orders teams for the leaderboard, highest aggregate score
// first. The input slice is not modified.
func SortByScore(teams []Team) []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
