package db

import (
	"database/sql"

	"flagboard/internal/rank"
)

// FetchScoreRecords returns one record per user, with the solved count
// derived from the solved set. Nullable activity timestamps are normalized
// to the zero time here so the ranking engine sees a uniform shape.
func FetchScoreRecords() ([]rank.ScoreRecord, error) {
	rows, err := db.Query(`
		SELECT u.id, u.display_name, u.role, u.points, u.last_activity, COUNT(sc.challenge_id) AS solved
		FROM users u
		LEFT JOIN solved_challenges sc ON sc.user_id = u.id
		GROUP BY u.id, u.display_name, u.role, u.points, u.last_activity
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []rank.ScoreRecord
	for rows.Next() {
		var rec rank.ScoreRecord
		var role string
		var lastActivity sql.NullTime
		if err := rows.Scan(&rec.UserID, &rec.DisplayName, &role, &rec.Points, &lastActivity, &rec.SolvedCount); err != nil {
			return nil, err
		}
		rec.Role = rank.Role(role)
		if lastActivity.Valid {
			rec.LastActivity = lastActivity.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
