package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"flagboard/internal/rank"
)

type User struct {
	ID           string
	DisplayName  string
	Role         rank.Role
	Points       int
	LastActivity time.Time
	CreatedAt    time.Time
}

func CreateUser(displayName string, role rank.Role) (*User, error) {
	if role == "" {
		role = rank.RoleUser
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.Exec("INSERT INTO users (id, display_name, role, created_at) VALUES (?, ?, ?, ?)",
		id, displayName, string(role), now)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, DisplayName: displayName, Role: role, CreatedAt: now}, nil
}

func GetUser(id string) (*User, error) {
	return scanUser(db.QueryRow(
		"SELECT id, display_name, role, points, last_activity, created_at FROM users WHERE id = ?", id))
}

func GetUserByName(displayName string) (*User, error) {
	return scanUser(db.QueryRow(
		"SELECT id, display_name, role, points, last_activity, created_at FROM users WHERE display_name = ?", displayName))
}

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var role string
	var lastActivity sql.NullTime
	err := row.Scan(&user.ID, &user.DisplayName, &role, &user.Points, &lastActivity, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = rank.Role(role)
	if lastActivity.Valid {
		user.LastActivity = lastActivity.Time
	}
	return user, nil
}

// IncrementUserPoints adds to the user's aggregate score and marks activity.
func IncrementUserPoints(userID string, amount int, at time.Time) error {
	_, err := db.Exec("UPDATE users SET points = points + ?, last_activity = ? WHERE id = ?",
		amount, at.UTC(), userID)
	return err
}

// AddSolvedChallenge appends the challenge to the user's solved set.
// Repeat solves of other questions on the same challenge are no-ops.
func AddSolvedChallenge(userID, challengeID string) error {
	_, err := db.Exec("INSERT OR IGNORE INTO solved_challenges (user_id, challenge_id) VALUES (?, ?)",
		userID, challengeID)
	return err
}

func GetSolvedChallenges(userID string) (map[string]bool, error) {
	rows, err := db.Query("SELECT challenge_id FROM solved_challenges WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	solved := make(map[string]bool)
	for rows.Next() {
		var challengeID string
		if err := rows.Scan(&challengeID); err != nil {
			return nil, err
		}
		solved[challengeID] = true
	}
	return solved, rows.Err()
}
