package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrWriteupNotAllowed is returned when the author has not solved the
// challenge they are writing up.
var ErrWriteupNotAllowed = errors.New("challenge not solved by author")

type Writeup struct {
	ID          string
	UserID      string
	ChallengeID string
	Title       string
	Body        string
	PublishedAt time.Time
}

// PublishWriteup stores a write-up. Authors may only publish for challenges
// in their solved set.
func PublishWriteup(userID, challengeID, title, body string) (*Writeup, error) {
	var solved bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM solved_challenges WHERE user_id = ? AND challenge_id = ?)",
		userID, challengeID).Scan(&solved)
	if err != nil {
		return nil, err
	}
	if !solved {
		return nil, ErrWriteupNotAllowed
	}

	wu := &Writeup{
		ID:          uuid.NewString(),
		UserID:      userID,
		ChallengeID: challengeID,
		Title:       title,
		Body:        body,
		PublishedAt: time.Now().UTC(),
	}
	_, err = db.Exec("INSERT INTO writeups (id, user_id, challenge_id, title, body, published_at) VALUES (?, ?, ?, ?, ?, ?)",
		wu.ID, wu.UserID, wu.ChallengeID, wu.Title, wu.Body, wu.PublishedAt)
	if err != nil {
		return nil, err
	}
	return wu, nil
}

func GetWriteups(challengeID string) ([]Writeup, error) {
	return queryWriteups("SELECT id, user_id, challenge_id, title, body, published_at FROM writeups WHERE challenge_id = ? ORDER BY published_at DESC", challengeID)
}

func GetWriteupsByUser(userID string) ([]Writeup, error) {
	return queryWriteups("SELECT id, user_id, challenge_id, title, body, published_at FROM writeups WHERE user_id = ? ORDER BY published_at DESC", userID)
}

func queryWriteups(query string, arg any) ([]Writeup, error) {
	rows, err := db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var writeups []Writeup
	for rows.Next() {
		var wu Writeup
		if err := rows.Scan(&wu.ID, &wu.UserID, &wu.ChallengeID, &wu.Title, &wu.Body, &wu.PublishedAt); err != nil {
			return nil, err
		}
		writeups = append(writeups, wu)
	}
	return writeups, rows.Err()
}
