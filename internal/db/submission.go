package db

import (
	"time"

	"github.com/google/uuid"

	"flagboard/internal/progress"
)

// AppendSubmission stores one submission record. Records are append-only;
// nothing ever updates or deletes them.
func AppendSubmission(sub progress.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	_, err := db.Exec(`
		INSERT INTO submissions (id, challenge_id, user_id, question_id, question_idx, flag, correct, points_awarded, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ChallengeID, sub.UserID, sub.QuestionID, sub.QuestionIndex,
		sub.Flag, sub.Correct, sub.PointsAwarded, sub.SubmittedAt.UTC())
	return err
}

// FetchSubmissions returns the full submission history for a user on a
// challenge, oldest first.
func FetchSubmissions(challengeID, userID string) ([]progress.Submission, error) {
	rows, err := db.Query(`
		SELECT id, challenge_id, user_id, question_id, question_idx, flag, correct, points_awarded, submitted_at
		FROM submissions
		WHERE challenge_id = ? AND user_id = ?
		ORDER BY submitted_at ASC, id ASC`,
		challengeID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []progress.Submission
	for rows.Next() {
		var sub progress.Submission
		if err := rows.Scan(&sub.ID, &sub.ChallengeID, &sub.UserID, &sub.QuestionID, &sub.QuestionIndex,
			&sub.Flag, &sub.Correct, &sub.PointsAwarded, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// RecordSolve persists a paid correct submission atomically: the
// paid-solve uniqueness is re-checked inside the transaction so two
// concurrent submissions for the same question cannot both score.
func RecordSolve(sub progress.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var alreadyPaid bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM submissions
			WHERE user_id = ? AND challenge_id = ? AND question_id = ?
			AND correct = 1 AND points_awarded > 0
		)`,
		sub.UserID, sub.ChallengeID, sub.QuestionID).Scan(&alreadyPaid)
	if err != nil {
		return err
	}
	if alreadyPaid {
		return progress.ErrAlreadyLocked
	}

	_, err = tx.Exec(`
		INSERT INTO submissions (id, challenge_id, user_id, question_id, question_idx, flag, correct, points_awarded, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ChallengeID, sub.UserID, sub.QuestionID, sub.QuestionIndex,
		sub.Flag, sub.Correct, sub.PointsAwarded, sub.SubmittedAt.UTC())
	if err != nil {
		return err
	}

	_, err = tx.Exec("UPDATE users SET points = points + ?, last_activity = ? WHERE id = ?",
		sub.PointsAwarded, sub.SubmittedAt.UTC(), sub.UserID)
	if err != nil {
		return err
	}

	_, err = tx.Exec("INSERT OR IGNORE INTO solved_challenges (user_id, challenge_id) VALUES (?, ?)",
		sub.UserID, sub.ChallengeID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FirstSolvers returns, per question, the display name of the first user who
// scored it. MIN(submitted_at) pins the bare display_name column to the
// earliest solve's row; rows can land in any order when solves race.
func FirstSolvers(challengeID string) (map[string]string, error) {
	rows, err := db.Query(`
		SELECT s.question_id, u.display_name, MIN(s.submitted_at)
		FROM submissions s
		JOIN users u ON s.user_id = u.id
		WHERE s.challenge_id = ? AND s.correct = 1 AND s.points_awarded > 0
		GROUP BY s.question_id`,
		challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	solvers := make(map[string]string)
	for rows.Next() {
		var questionID, displayName string
		var solvedAt time.Time
		if err := rows.Scan(&questionID, &displayName, &solvedAt); err != nil {
			return nil, err
		}
		solvers[questionID] = displayName
	}
	return solvers, rows.Err()
}
