package db

import (
	"time"
)

// ScorePoint represents a cumulative score value at a specific time.
type ScorePoint struct {
	Time  time.Time
	Score int
}

// GetUserScoreTimeSeries returns a cumulative score time series for a user.
// Only scored submissions contribute; the pay-once rule means each question
// appears at most once.
func GetUserScoreTimeSeries(userID string) ([]ScorePoint, error) {
	rows, err := db.Query(`
		SELECT submitted_at, points_awarded
		FROM submissions
		WHERE user_id = ? AND correct = 1 AND points_awarded > 0
		ORDER BY submitted_at ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cumulative := 0
	var series []ScorePoint
	for rows.Next() {
		var ts time.Time
		var points int
		if err := rows.Scan(&ts, &points); err != nil {
			return nil, err
		}
		cumulative += points
		series = append(series, ScorePoint{Time: ts, Score: cumulative})
	}
	return series, rows.Err()
}
