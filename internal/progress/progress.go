// Package progress computes per-question solve state for a challenge from a
// user's append-only submission history, and validates new flag submissions
// against the lock rules. It is a pure library: all fetching and writing
// belongs to the caller.
package progress

import (
	"strings"
	"time"
)

// Question is one independently scored flag of a multi-question challenge.
type Question struct {
	ID     string
	Flag   string
	Points int
}

// Challenge is a challenge definition. Single-flag challenges carry Flag and
// Points directly; multi-question challenges set MultiQuestion and carry an
// ordered Questions list instead.
type Challenge struct {
	ID            string
	Title         string
	Points        int
	Flag          string
	MultiQuestion bool
	Questions     []Question
}

// Submission is one historical flag submission. Records are created once and
// never mutated; all derived state is recomputed from the full history.
type Submission struct {
	ID            string
	ChallengeID   string
	UserID        string
	QuestionID    string
	QuestionIndex int
	Flag          string
	Correct       bool
	PointsAwarded int
	SubmittedAt   time.Time
}

// QuestionState is the derived state of one question for one user.
// Locked means points were awarded; no further submissions are accepted.
type QuestionState struct {
	Solved        bool
	PointsAwarded int
	Locked        bool
}

// Result of a validated flag submission. Record is the submission to append
// to the store; the caller owns persisting it and applying the score.
type Result struct {
	Correct       bool
	PointsAwarded int
	Record        Submission
	State         QuestionState
}

// questions normalizes a challenge to its question list. Single-flag
// challenges become a one-question list backed by the challenge flag.
func questions(ch Challenge) ([]Question, error) {
	if ch.MultiQuestion {
		if len(ch.Questions) == 0 {
			return nil, ErrInvalidChallenge
		}
		for _, q := range ch.Questions {
			if strings.TrimSpace(q.Flag) == "" {
				return nil, ErrInvalidChallenge
			}
		}
		return ch.Questions, nil
	}
	if strings.TrimSpace(ch.Flag) == "" {
		return nil, ErrInvalidChallenge
	}
	return []Question{{ID: ch.ID, Flag: ch.Flag, Points: ch.Points}}, nil
}

// States recomputes the per-question state from the submission history.
// PointsAwarded is taken from the first correct submission carrying nonzero
// points; later duplicates never add to it.
func States(ch Challenge, history []Submission) ([]QuestionState, error) {
	qs, err := questions(ch)
	if err != nil {
		return nil, err
	}
	states := make([]QuestionState, len(qs))
	for i, q := range qs {
		states[i] = questionState(q, i, history)
	}
	return states, nil
}

func questionState(q Question, index int, history []Submission) QuestionState {
	var st QuestionState
	for _, sub := range history {
		if !matches(sub, q, index) || !sub.Correct {
			continue
		}
		st.Solved = true
		if st.PointsAwarded == 0 && sub.PointsAwarded > 0 {
			st.PointsAwarded = sub.PointsAwarded
		}
	}
	st.Locked = st.Solved && st.PointsAwarded > 0
	return st
}

// matches pairs a stored submission with a question, preferring the stored
// question ID and falling back to the positional index for older records.
func matches(sub Submission, q Question, index int) bool {
	if sub.QuestionID != "" {
		return sub.QuestionID == q.ID
	}
	return sub.QuestionIndex == index
}

// SubmitFlag validates a submission against the challenge and the user's
// history. Pass question 0 for single-flag challenges. The returned Result
// carries the record to append; incorrect attempts are recorded too. A
// locked question rejects the attempt with ErrAlreadyLocked and produces no
// record.
func SubmitFlag(ch Challenge, question int, userID, flag string, history []Submission) (Result, error) {
	qs, err := questions(ch)
	if err != nil {
		return Result{}, err
	}
	if question < 0 || question >= len(qs) {
		return Result{}, ErrQuestionIndex
	}
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return Result{}, ErrEmptyFlag
	}

	q := qs[question]
	st := questionState(q, question, history)
	if st.Locked {
		return Result{}, ErrAlreadyLocked
	}

	correct := strings.EqualFold(flag, strings.TrimSpace(q.Flag))
	awarded := 0
	if correct && st.PointsAwarded == 0 {
		awarded = q.Points
	}

	record := Submission{
		ChallengeID:   ch.ID,
		UserID:        userID,
		QuestionID:    q.ID,
		QuestionIndex: question,
		Flag:          flag,
		Correct:       correct,
		PointsAwarded: awarded,
		SubmittedAt:   time.Now().UTC(),
	}

	next := st
	if correct {
		next.Solved = true
		if next.PointsAwarded == 0 {
			next.PointsAwarded = awarded
		}
		next.Locked = next.PointsAwarded > 0
	}

	return Result{
		Correct:       correct,
		PointsAwarded: awarded,
		Record:        record,
		State:         next,
	}, nil
}

// SolvedCount is the number of solved questions, paid or not.
func SolvedCount(states []QuestionState) int {
	n := 0
	for _, st := range states {
		if st.Solved {
			n++
		}
	}
	return n
}

// TotalPoints is the sum of points awarded across questions.
func TotalPoints(states []QuestionState) int {
	total := 0
	for _, st := range states {
		total += st.PointsAwarded
	}
	return total
}

// FullySolved reports whether every question is solved, regardless of points.
func FullySolved(states []QuestionState) bool {
	return len(states) > 0 && SolvedCount(states) == len(states)
}
