// Package game wires the pure scoring cores to the store: fetch the
// challenge and history, let the tracker decide, then persist the outcome.
package game

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"flagboard/internal/progress"
)

// Store is the slice of the document store the game flow needs.
type Store interface {
	FetchChallenge(id string) (progress.Challenge, error)
	FetchSubmissions(challengeID, userID string) ([]progress.Submission, error)
	AppendSubmission(sub progress.Submission) error
	RecordSolve(sub progress.Submission) error
}

// Invalidator drops derived leaderboard state after a scored solve.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	store       Store
	leaderboard Invalidator // nil when no cache is configured
}

func New(store Store, leaderboard Invalidator) *Service {
	return &Service{store: store, leaderboard: leaderboard}
}

// Submit runs one flag submission end to end. Validation errors from the
// tracker (empty flag, locked question, bad index) come back as-is and leave
// the store untouched; store failures mean the submission did not happen.
func (s *Service) Submit(ctx context.Context, userID, challengeID string, question int, flag string) (progress.Result, error) {
	ch, err := s.store.FetchChallenge(challengeID)
	if err != nil {
		return progress.Result{}, fmt.Errorf("fetch challenge %s: %w", challengeID, err)
	}
	history, err := s.store.FetchSubmissions(challengeID, userID)
	if err != nil {
		return progress.Result{}, fmt.Errorf("fetch submissions: %w", err)
	}

	res, err := progress.SubmitFlag(ch, question, userID, flag, history)
	if err != nil {
		return progress.Result{}, err
	}

	if res.PointsAwarded > 0 {
		// Paid solves go through the transactional path; a concurrent
		// submission that scored first surfaces as ErrAlreadyLocked here.
		if err := s.store.RecordSolve(res.Record); err != nil {
			return progress.Result{}, err
		}
		if s.leaderboard != nil {
			s.leaderboard.Invalidate(ctx)
		}
		log.Info("flag scored", "user", userID, "challenge", challengeID, "question", question, "points", res.PointsAwarded)
	} else {
		if err := s.store.AppendSubmission(res.Record); err != nil {
			return progress.Result{}, err
		}
		log.Debug("flag recorded", "user", userID, "challenge", challengeID, "question", question, "correct", res.Correct)
	}

	return res, nil
}

// ChallengeProgress is the per-challenge view of a user's standing.
type ChallengeProgress struct {
	States      []progress.QuestionState
	SolvedCount int
	TotalPoints int
	FullySolved bool
}

// Progress recomputes the user's state for a challenge from their history.
func (s *Service) Progress(ctx context.Context, userID, challengeID string) (ChallengeProgress, error) {
	ch, err := s.store.FetchChallenge(challengeID)
	if err != nil {
		return ChallengeProgress{}, fmt.Errorf("fetch challenge %s: %w", challengeID, err)
	}
	history, err := s.store.FetchSubmissions(challengeID, userID)
	if err != nil {
		return ChallengeProgress{}, fmt.Errorf("fetch submissions: %w", err)
	}

	states, err := progress.States(ch, history)
	if err != nil {
		return ChallengeProgress{}, err
	}
	return ChallengeProgress{
		States:      states,
		SolvedCount: progress.SolvedCount(states),
		TotalPoints: progress.TotalPoints(states),
		FullySolved: progress.FullySolved(states),
	}, nil
}
