package game

import (
	"flagboard/internal/db"
	"flagboard/internal/progress"
)

// SQLStore adapts the sqlite store to the game Store interface.
type SQLStore struct{}

func (SQLStore) FetchChallenge(id string) (progress.Challenge, error) {
	chal, err := db.GetChallenge(id)
	if err != nil {
		return progress.Challenge{}, err
	}
	return chal.Definition(), nil
}

func (SQLStore) FetchSubmissions(challengeID, userID string) ([]progress.Submission, error) {
	return db.FetchSubmissions(challengeID, userID)
}

func (SQLStore) AppendSubmission(sub progress.Submission) error {
	return db.AppendSubmission(sub)
}

func (SQLStore) RecordSolve(sub progress.Submission) error {
	return db.RecordSolve(sub)
}
