package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flagboard/internal/progress"
	"flagboard/internal/rank"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Init(filepath.Join(t.TempDir(), "flagboard.sqlite")))
	t.Cleanup(Close)
}

func TestUserLifecycle(t *testing.T) {
	initTestDB(t)

	user, err := CreateUser("alice", rank.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	got, err := GetUserByName("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, rank.RoleUser, got.Role)
	assert.Zero(t, got.Points)
	assert.True(t, got.LastActivity.IsZero())

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, IncrementUserPoints(user.ID, 150, now))

	got, err = GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, got.Points)
	assert.False(t, got.LastActivity.IsZero())
}

func TestCreateUserDefaultsRole(t *testing.T) {
	initTestDB(t)
	user, err := CreateUser("bob", "")
	require.NoError(t, err)
	assert.Equal(t, rank.RoleUser, user.Role)
}

func TestLoadChallengesFromYAML(t *testing.T) {
	initTestDB(t)

	dir := t.TempDir()
	single := `
challenge:
  name: Baby Web
  author: alice
  category: web
  description: A gentle start.
  flag: flag{baby}
`
	multi := `
challenge:
  name: Deep Forensics
  author: bob
  category: forensics
  description: Three artifacts, three flags.
  questions:
    - id: q1
      flag: flag{one}
      points: 100
    - id: q2
      flag: flag{two}
      points: 200
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "baby-web"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baby-web", "flagboard.yml"), []byte(single), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deep", "flagboard.yaml"), []byte(multi), 0o644))

	require.NoError(t, LoadChallenges(dir, 500))

	challenges := GetChallenges()
	require.Len(t, challenges, 2)

	web, ok := challenges["baby_web"]
	require.True(t, ok)
	assert.Equal(t, "Baby Web", web.Title)
	assert.Equal(t, 500, web.Points) // default applied
	assert.False(t, web.MultiQuestion)

	forensics, err := GetChallenge("deep_forensics")
	require.NoError(t, err)
	assert.True(t, forensics.MultiQuestion)
	require.Len(t, forensics.Questions, 2)
	assert.Equal(t, "q1", forensics.Questions[0].ID)
	assert.Equal(t, 200, forensics.Questions[1].Points)

	assert.Equal(t, []string{"forensics", "web"}, GetChallengeCategories())
}

func TestLoadChallengesIsIdempotent(t *testing.T) {
	initTestDB(t)

	dir := t.TempDir()
	def := `
challenge:
  name: Rerun
  author: alice
  category: misc
  description: d
  flag: flag{x}
  points: 100
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flagboard.yml"), []byte(def), 0o644))
	require.NoError(t, LoadChallenges(dir, 500))
	require.NoError(t, LoadChallenges(dir, 500))
	assert.Len(t, GetChallenges(), 1)
}

func seedChallenge(t *testing.T) Challenge {
	t.Helper()
	chal := Challenge{
		ID:            "pwn_me",
		Title:         "Pwn Me",
		Description:   "d",
		Category:      "pwn",
		Author:        "eve",
		MultiQuestion: true,
		Questions: []progress.Question{
			{ID: "q1", Flag: "flag{one}", Points: 100},
			{ID: "q2", Flag: "flag{two}", Points: 200},
		},
	}
	require.NoError(t, CreateChallenge(chal))
	return chal
}

func TestSubmissionHistoryRoundTrip(t *testing.T) {
	initTestDB(t)
	chal := seedChallenge(t)
	user, err := CreateUser("carol", rank.RoleUser)
	require.NoError(t, err)

	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, AppendSubmission(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{wrong}", Correct: false, SubmittedAt: at,
	}))
	require.NoError(t, AppendSubmission(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at.Add(time.Minute),
	}))

	subs, err := FetchSubmissions("pwn_me", user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.False(t, subs[0].Correct)
	assert.True(t, subs[1].Correct)
	assert.Equal(t, 100, subs[1].PointsAwarded)

	states, err := progress.States(chal.Definition(), subs)
	require.NoError(t, err)
	assert.True(t, states[0].Locked)
	assert.False(t, states[1].Solved)
}

func TestRecordSolveIsAtomicAndUnique(t *testing.T) {
	initTestDB(t)
	seedChallenge(t)
	user, err := CreateUser("dave", rank.RoleUser)
	require.NoError(t, err)

	at := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	sub := progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at,
	}
	require.NoError(t, RecordSolve(sub))

	// A second paid solve for the same question must be refused inside the
	// transaction, leaving points and history untouched.
	err = RecordSolve(sub)
	assert.ErrorIs(t, err, progress.ErrAlreadyLocked)

	got, err := GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Points)

	subs, err := FetchSubmissions("pwn_me", user.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	solved, err := GetSolvedChallenges(user.ID)
	require.NoError(t, err)
	assert.True(t, solved["pwn_me"])
}

func TestRecordSolveOtherQuestionStillScores(t *testing.T) {
	initTestDB(t)
	seedChallenge(t)
	user, err := CreateUser("erin", rank.RoleUser)
	require.NoError(t, err)

	at := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at,
	}))
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q2", QuestionIndex: 1,
		Flag: "flag{two}", Correct: true, PointsAwarded: 200, SubmittedAt: at.Add(time.Minute),
	}))

	got, err := GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, got.Points)

	solvers, err := FirstSolvers("pwn_me")
	require.NoError(t, err)
	assert.Equal(t, "erin", solvers["q1"])
	assert.Equal(t, "erin", solvers["q2"])
}

func TestFirstSolversUsesEarliestSubmissionTime(t *testing.T) {
	initTestDB(t)
	seedChallenge(t)

	early, err := CreateUser("early", rank.RoleUser)
	require.NoError(t, err)
	late, err := CreateUser("late", rank.RoleUser)
	require.NoError(t, err)

	// The later solve lands in the store first; concurrent solvers can
	// commit out of timestamp order. The earliest timestamp must still win.
	at := time.Date(2025, 7, 6, 9, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: late.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at.Add(time.Hour),
	}))
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: early.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at,
	}))

	solvers, err := FirstSolvers("pwn_me")
	require.NoError(t, err)
	assert.Equal(t, "early", solvers["q1"])
}

func TestFetchScoreRecordsNormalizesActivity(t *testing.T) {
	initTestDB(t)
	seedChallenge(t)

	idle, err := CreateUser("idle", rank.RoleUser)
	require.NoError(t, err)
	active, err := CreateUser("active", rank.RoleAdmin)
	require.NoError(t, err)

	at := time.Date(2025, 7, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: active.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at,
	}))

	records, err := FetchScoreRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := map[string]rank.ScoreRecord{}
	for _, r := range records {
		byID[r.UserID] = r
	}
	assert.True(t, byID[idle.ID].LastActivity.IsZero())
	assert.Zero(t, byID[idle.ID].SolvedCount)
	assert.Equal(t, rank.RoleAdmin, byID[active.ID].Role)
	assert.Equal(t, 1, byID[active.ID].SolvedCount)
	assert.False(t, byID[active.ID].LastActivity.IsZero())
}

func TestWriteupRequiresSolve(t *testing.T) {
	initTestDB(t)
	seedChallenge(t)
	user, err := CreateUser("frank", rank.RoleUser)
	require.NoError(t, err)

	_, err = PublishWriteup(user.ID, "pwn_me", "How I didn't solve it", "...")
	assert.ErrorIs(t, err, ErrWriteupNotAllowed)

	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100,
		SubmittedAt: time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC),
	}))

	wu, err := PublishWriteup(user.ID, "pwn_me", "How I solved it", "step one...")
	require.NoError(t, err)
	assert.NotEmpty(t, wu.ID)

	byChal, err := GetWriteups("pwn_me")
	require.NoError(t, err)
	require.Len(t, byChal, 1)
	assert.Equal(t, "How I solved it", byChal[0].Title)

	byUser, err := GetWriteupsByUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
}

func TestEvents(t *testing.T) {
	initTestDB(t)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err := CreateEvent("Summer CTF", "annual event", start, start.Add(48*time.Hour))
	require.NoError(t, err)

	events, err := GetEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev, err := ActiveEvent(start.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "Summer CTF", ev.Name)

	ev, err = ActiveEvent(start.Add(72 * time.Hour))
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestScoreTimeSeries(t *testing.T) {
	initTestDB(t)
	seedChallenge(t)
	user, err := CreateUser("grace", rank.RoleUser)
	require.NoError(t, err)

	at := time.Date(2025, 7, 5, 8, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q1", QuestionIndex: 0,
		Flag: "flag{one}", Correct: true, PointsAwarded: 100, SubmittedAt: at,
	}))
	require.NoError(t, RecordSolve(progress.Submission{
		ChallengeID: "pwn_me", UserID: user.ID, QuestionID: "q2", QuestionIndex: 1,
		Flag: "flag{two}", Correct: true, PointsAwarded: 200, SubmittedAt: at.Add(time.Hour),
	}))

	series, err := GetUserScoreTimeSeries(user.ID)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 100, series[0].Score)
	assert.Equal(t, 300, series[1].Score)
}
