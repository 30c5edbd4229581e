package rank

import (
	"sort"
	"time"
)

// Role is the access level attached to a score record.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ScoreRecord is one user's standing as read from the store. A zero
// LastActivity means the user has no recorded activity and sorts last
// among equal scores.
type ScoreRecord struct {
	UserID       string
	DisplayName  string
	Points       int
	LastActivity time.Time
	SolvedCount  int
	Role         Role
}

// RankedEntry is a ScoreRecord annotated with its leaderboard rank.
type RankedEntry struct {
	ScoreRecord
	Rank int
}

// Rank filters out admin records, orders the rest by points desc,
// last activity desc, solved count desc, display name asc, and assigns
// competition ranks. Entries equal on all four keys share a rank; the
// next distinct entry takes its 1-based position, so a two-way tie at
// the top yields ranks 1,1,3.
//
// TODO: the 1,1,3 jump matches the legacy scoreboard output; product
// has not decided whether to switch to dense ranking.
func Rank(records []ScoreRecord) []RankedEntry {
	players := make([]ScoreRecord, 0, len(records))
	for _, r := range records {
		if r.Role == RoleAdmin {
			continue
		}
		players = append(players, r)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return less(players[i], players[j])
	})

	entries := make([]RankedEntry, len(players))
	for i, r := range players {
		entry := RankedEntry{ScoreRecord: r, Rank: i + 1}
		if i > 0 && sameKeys(r, players[i-1]) {
			entry.Rank = entries[i-1].Rank
		}
		entries[i] = entry
	}
	return entries
}

func less(a, b ScoreRecord) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if !a.LastActivity.Equal(b.LastActivity) {
		return a.LastActivity.After(b.LastActivity)
	}
	if a.SolvedCount != b.SolvedCount {
		return a.SolvedCount > b.SolvedCount
	}
	return a.DisplayName < b.DisplayName
}

// sameKeys reports whether two records compare equal on every sort key.
func sameKeys(a, b ScoreRecord) bool {
	return a.Points == b.Points &&
		a.LastActivity.Equal(b.LastActivity) &&
		a.SolvedCount == b.SolvedCount &&
		a.DisplayName == b.DisplayName
}
