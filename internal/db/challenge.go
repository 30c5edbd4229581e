package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"flagboard/internal/progress"
)

// Challenge is a stored challenge definition plus its display metadata.
type Challenge struct {
	ID            string
	Title         string
	Description   string
	Category      string
	Points        int
	Flag          string
	Author        string
	MultiQuestion bool
	Questions     []progress.Question
}

// Definition strips the display metadata down to what the progress tracker
// needs.
func (c Challenge) Definition() progress.Challenge {
	return progress.Challenge{
		ID:            c.ID,
		Title:         c.Title,
		Points:        c.Points,
		Flag:          c.Flag,
		MultiQuestion: c.MultiQuestion,
		Questions:     c.Questions,
	}
}

type challengeConfig struct {
	Challenge struct {
		Name        string `yaml:"name"`
		Author      string `yaml:"author"`
		Category    string `yaml:"category"`
		Description string `yaml:"description"`
		Flag        string `yaml:"flag"`
		Points      int    `yaml:"points"`
		Questions   []struct {
			ID     string `yaml:"id"`
			Flag   string `yaml:"flag"`
			Points int    `yaml:"points"`
		} `yaml:"questions"`
	} `yaml:"challenge"`
}

// LoadChallenges walks dir for flagboard.yml files and upserts each
// challenge. Definitions with a questions list become multi-question
// challenges; otherwise the top-level flag and points apply.
func LoadChallenges(dir string, defaultPoints int) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := strings.ToLower(d.Name())
		if name != "flagboard.yml" && name != "flagboard.yaml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		chalConfig := challengeConfig{}
		if err := yaml.Unmarshal(data, &chalConfig); err != nil {
			return err
		}
		if chalConfig.Challenge.Points <= 0 {
			chalConfig.Challenge.Points = defaultPoints
		}

		chal := Challenge{
			ID:            slugify(chalConfig.Challenge.Name),
			Title:         chalConfig.Challenge.Name,
			Description:   chalConfig.Challenge.Description,
			Category:      chalConfig.Challenge.Category,
			Points:        chalConfig.Challenge.Points,
			Flag:          chalConfig.Challenge.Flag,
			Author:        chalConfig.Challenge.Author,
			MultiQuestion: len(chalConfig.Challenge.Questions) > 0,
		}
		for i, q := range chalConfig.Challenge.Questions {
			points := q.Points
			if points <= 0 {
				points = defaultPoints
			}
			id := q.ID
			if id == "" {
				id = fmt.Sprintf("q%d", i+1)
			}
			chal.Questions = append(chal.Questions, progress.Question{
				ID:     id,
				Flag:   q.Flag,
				Points: points,
			})
		}

		if err := CreateChallenge(chal); err != nil {
			log.Error("failed to store challenge", "path", path, "err", err)
		}
		return nil
	})
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// CreateChallenge upserts a challenge and its questions, so reloading a
// challenge directory is safe.
func CreateChallenge(chal Challenge) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO challenges (id, title, description, category, points, flag, author, multi_question)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			points = excluded.points,
			flag = excluded.flag,
			author = excluded.author,
			multi_question = excluded.multi_question`,
		chal.ID, chal.Title, chal.Description, chal.Category, chal.Points, chal.Flag, chal.Author, chal.MultiQuestion)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM challenge_questions WHERE challenge_id = ?", chal.ID); err != nil {
		return err
	}
	for i, q := range chal.Questions {
		_, err := tx.Exec("INSERT INTO challenge_questions (id, challenge_id, idx, flag, points) VALUES (?, ?, ?, ?, ?)",
			q.ID, chal.ID, i, q.Flag, q.Points)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func GetChallenge(id string) (*Challenge, error) {
	chal := &Challenge{}
	err := db.QueryRow(
		"SELECT id, title, description, category, points, flag, author, multi_question FROM challenges WHERE id = ?", id).
		Scan(&chal.ID, &chal.Title, &chal.Description, &chal.Category, &chal.Points, &chal.Flag, &chal.Author, &chal.MultiQuestion)
	if err != nil {
		return nil, err
	}
	chal.Questions, err = getQuestions(chal.ID)
	if err != nil {
		return nil, err
	}
	return chal, nil
}

func getQuestions(challengeID string) ([]progress.Question, error) {
	rows, err := db.Query(
		"SELECT id, flag, points FROM challenge_questions WHERE challenge_id = ? ORDER BY idx", challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []progress.Question
	for rows.Next() {
		var q progress.Question
		if err := rows.Scan(&q.ID, &q.Flag, &q.Points); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func GetChallenges() map[string]Challenge {
	rows, err := db.Query("SELECT id, title, description, category, points, flag, author, multi_question FROM challenges")
	if err != nil {
		log.Error("failed to query challenges", "err", err)
		return nil
	}
	defer rows.Close()

	challenges := make(map[string]Challenge)
	for rows.Next() {
		var chal Challenge
		if err := rows.Scan(&chal.ID, &chal.Title, &chal.Description, &chal.Category, &chal.Points, &chal.Flag, &chal.Author, &chal.MultiQuestion); err != nil {
			log.Error("failed to scan challenge", "err", err)
			continue
		}
		chal.Questions, err = getQuestions(chal.ID)
		if err != nil {
			log.Error("failed to load questions", "challenge", chal.ID, "err", err)
			continue
		}
		challenges[chal.ID] = chal
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating over challenges", "err", err)
		return nil
	}
	return challenges
}

func GetChallengeCategories() []string {
	rows, err := db.Query("SELECT DISTINCT category FROM challenges ORDER BY category")
	if err != nil {
		log.Error("failed to query challenge categories", "err", err)
		return nil
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			log.Error("failed to scan category", "err", err)
			return nil
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating over categories", "err", err)
		return nil
	}
	return categories
}
