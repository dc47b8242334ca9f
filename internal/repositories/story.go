package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/shared"
)

// StoryRepository caches the front-page story list.
type StoryRepository struct {
	db *sql.DB
}

// NewStoryRepository creates a new [StoryRepository] with the given database connection
func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

const upsertStory = `
	INSERT INTO stories (story_id, title, author, url, username, created_at, cached_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(story_id) DO UPDATE SET
		title = excluded.title,
		author = excluded.author,
		url = excluded.url,
		username = excluded.username,
		created_at = excluded.created_at,
		cached_at = excluded.cached_at
`

// ReplaceAll swaps the cached list for stories in one transaction.
func (r *StoryRepository) ReplaceAll(ctx context.Context, stories []models.Story) error {
	now := time.Now()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM stories"); err != nil {
			return fmt.Errorf("failed to clear stories: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, upsertStory)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, s := range stories {
			if _, err := stmt.ExecContext(ctx, s.ID, s.Title, s.Author, s.URL, s.Username, s.CreatedAt, now); err != nil {
				return fmt.Errorf("failed to insert story %s: %w", s.ID, err)
			}
		}
		return nil
	})
}

// Save inserts or updates a single story.
func (r *StoryRepository) Save(ctx context.Context, s models.Story) error {
	if s.ID == "" {
		return fmt.Errorf("%w: story id is required", shared.ErrInvalidInput)
	}

	if _, err := r.db.ExecContext(ctx, upsertStory, s.ID, s.Title, s.Author, s.URL, s.Username, s.CreatedAt, time.Now()); err != nil {
		return fmt.Errorf("failed to save story %s: %w", s.ID, err)
	}
	return nil
}

// Get retrieves a cached story by id.
func (r *StoryRepository) Get(ctx context.Context, id string) (*models.Story, error) {
	query := `
		SELECT story_id, title, author, url, username, created_at
		FROM stories
		WHERE story_id = ?
	`

	var s models.Story
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Title, &s.Author, &s.URL, &s.Username, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrStoryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query story: %w", err)
	}
	return &s, nil
}

// List returns cached stories newest first. A limit of zero or less returns every row.
func (r *StoryRepository) List(ctx context.Context, limit int) ([]models.Story, error) {
	query := `
		SELECT story_id, title, author, url, username, created_at
		FROM stories
		ORDER BY created_at DESC, story_id ASC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		var s models.Story
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.URL, &s.Username, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stories, nil
}

// Count returns the number of cached stories.
func (r *StoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stories").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stories: %w", err)
	}
	return n, nil
}
