package db

import (
	"database/sql"

	"github.com/charmbracelet/log"
)

var db *sql.DB

func Init(path string) error {
	var err error
	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		display_name TEXT UNIQUE NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		points INTEGER NOT NULL DEFAULT 0,
		last_activity DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS challenges (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		points INTEGER NOT NULL DEFAULT 0,
		flag TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL,
		multi_question BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS challenge_questions (
		id TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		flag TEXT NOT NULL,
		points INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (challenge_id, id),
		FOREIGN KEY(challenge_id) REFERENCES challenges(id)
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		challenge_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		question_id TEXT NOT NULL DEFAULT '',
		question_idx INTEGER NOT NULL DEFAULT 0,
		flag TEXT NOT NULL,
		correct BOOLEAN NOT NULL,
		points_awarded INTEGER NOT NULL DEFAULT 0,
		submitted_at DATETIME NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(challenge_id) REFERENCES challenges(id)
	);

	CREATE TABLE IF NOT EXISTS solved_challenges (
		user_id TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		solved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, challenge_id),
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(challenge_id) REFERENCES challenges(id)
	);

	CREATE TABLE IF NOT EXISTS writeups (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		published_at DATETIME NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(challenge_id) REFERENCES challenges(id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL
	);
	`

	_, err = db.Exec(schema)
	return err
}

func Close() {
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("closing database", "err", err)
		}
		db = nil
	}
}
