package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          string
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
}

func CreateEvent(name, description string, startsAt, endsAt time.Time) (*Event, error) {
	ev := &Event{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		StartsAt:    startsAt.UTC(),
		EndsAt:      endsAt.UTC(),
	}
	_, err := db.Exec("INSERT INTO events (id, name, description, starts_at, ends_at) VALUES (?, ?, ?, ?, ?)",
		ev.ID, ev.Name, ev.Description, ev.StartsAt, ev.EndsAt)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func GetEvents() ([]Event, error) {
	rows, err := db.Query("SELECT id, name, description, starts_at, ends_at FROM events ORDER BY starts_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Description, &ev.StartsAt, &ev.EndsAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ActiveEvent returns the event whose window covers now, or nil when no
// event is running.
func ActiveEvent(now time.Time) (*Event, error) {
	ev := &Event{}
	err := db.QueryRow(
		"SELECT id, name, description, starts_at, ends_at FROM events WHERE starts_at <= ? AND ends_at > ? ORDER BY starts_at LIMIT 1",
		now.UTC(), now.UTC()).
		Scan(&ev.ID, &ev.Name, &ev.Description, &ev.StartsAt, &ev.EndsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}
