package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagboard/internal/progress"
)

type fakeStore struct {
	challenge progress.Challenge
	history   []progress.Submission

	fetchErr  error
	appendErr error
	solveErr  error

	appended []progress.Submission
	solved   []progress.Submission
}

func (f *fakeStore) FetchChallenge(id string) (progress.Challenge, error) {
	if f.fetchErr != nil {
		return progress.Challenge{}, f.fetchErr
	}
	return f.challenge, nil
}

func (f *fakeStore) FetchSubmissions(challengeID, userID string) ([]progress.Submission, error) {
	return f.history, nil
}

func (f *fakeStore) AppendSubmission(sub progress.Submission) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, sub)
	return nil
}

func (f *fakeStore) RecordSolve(sub progress.Submission) error {
	if f.solveErr != nil {
		return f.solveErr
	}
	f.solved = append(f.solved, sub)
	return nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(context.Context) { f.calls++ }

func testChallenge() progress.Challenge {
	return progress.Challenge{
		ID:            "crypto_101",
		MultiQuestion: true,
		Questions: []progress.Question{
			{ID: "q1", Flag: "flag{aes}", Points: 50},
			{ID: "q2", Flag: "flag{rsa}", Points: 100},
		},
	}
}

func TestSubmitCorrectScoresAndInvalidates(t *testing.T) {
	store := &fakeStore{challenge: testChallenge()}
	lb := &fakeInvalidator{}
	svc := New(store, lb)

	res, err := svc.Submit(context.Background(), "u1", "crypto_101", 0, "flag{aes}")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 50, res.PointsAwarded)

	require.Len(t, store.solved, 1)
	assert.Empty(t, store.appended, "paid solves take the transactional path")
	assert.Equal(t, 1, lb.calls)
}

func TestSubmitWrongFlagAppendsOnly(t *testing.T) {
	store := &fakeStore{challenge: testChallenge()}
	lb := &fakeInvalidator{}
	svc := New(store, lb)

	res, err := svc.Submit(context.Background(), "u1", "crypto_101", 1, "flag{des}")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	require.Len(t, store.appended, 1)
	assert.False(t, store.appended[0].Correct)
	assert.Empty(t, store.solved)
	assert.Zero(t, lb.calls, "no score change, no invalidation")
}

func TestSubmitLockedLeavesStoreUntouched(t *testing.T) {
	store := &fakeStore{
		challenge: testChallenge(),
		history: []progress.Submission{{
			ChallengeID: "crypto_101", UserID: "u1", QuestionID: "q1",
			Correct: true, PointsAwarded: 50,
		}},
	}
	svc := New(store, nil)

	_, err := svc.Submit(context.Background(), "u1", "crypto_101", 0, "flag{aes}")
	assert.ErrorIs(t, err, progress.ErrAlreadyLocked)
	assert.Empty(t, store.appended)
	assert.Empty(t, store.solved)
}

func TestSubmitEmptyFlagLeavesStoreUntouched(t *testing.T) {
	store := &fakeStore{challenge: testChallenge()}
	svc := New(store, nil)

	_, err := svc.Submit(context.Background(), "u1", "crypto_101", 0, "   ")
	assert.ErrorIs(t, err, progress.ErrEmptyFlag)
	assert.Empty(t, store.appended)
}

func TestSubmitRaceLoserGetsLockedError(t *testing.T) {
	// The tracker approves the solve, but the transactional write reports a
	// concurrent winner.
	store := &fakeStore{challenge: testChallenge(), solveErr: progress.ErrAlreadyLocked}
	lb := &fakeInvalidator{}
	svc := New(store, lb)

	_, err := svc.Submit(context.Background(), "u1", "crypto_101", 0, "flag{aes}")
	assert.ErrorIs(t, err, progress.ErrAlreadyLocked)
	assert.Zero(t, lb.calls)
}

func TestSubmitStoreFailurePropagates(t *testing.T) {
	boom := errors.New("store down")
	store := &fakeStore{challenge: testChallenge(), appendErr: boom}
	svc := New(store, nil)

	_, err := svc.Submit(context.Background(), "u1", "crypto_101", 0, "flag{wrong}")
	assert.ErrorIs(t, err, boom)
}

func TestSubmitFetchFailurePropagates(t *testing.T) {
	boom := errors.New("not found")
	store := &fakeStore{fetchErr: boom}
	svc := New(store, nil)

	_, err := svc.Submit(context.Background(), "u1", "gone", 0, "flag{x}")
	assert.ErrorIs(t, err, boom)
}

func TestProgressAggregates(t *testing.T) {
	store := &fakeStore{
		challenge: testChallenge(),
		history: []progress.Submission{
			{ChallengeID: "crypto_101", UserID: "u1", QuestionID: "q1", Correct: true, PointsAwarded: 50},
			{ChallengeID: "crypto_101", UserID: "u1", QuestionID: "q2", Correct: true, PointsAwarded: 0},
		},
	}
	svc := New(store, nil)

	prog, err := svc.Progress(context.Background(), "u1", "crypto_101")
	require.NoError(t, err)
	assert.Equal(t, 2, prog.SolvedCount)
	assert.Equal(t, 50, prog.TotalPoints)
	assert.True(t, prog.FullySolved)
	require.Len(t, prog.States, 2)
	assert.True(t, prog.States[0].Locked)
	assert.False(t, prog.States[1].Locked)
}
