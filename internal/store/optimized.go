package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/perflab/perfapi/internal/hash"
	"github.com/perflab/perfapi/internal/models"
)

// Optimized runs against the indexed schema: one aggregate query for the
// listing, storage-delegated search, a uniqueness constraint on username, and
// a single-pass (optionally memoized) credential digest.
type Optimized struct {
	db     *sqlx.DB
	digest hash.Digester
}

func NewOptimized(db *sqlx.DB, digest hash.Digester) *Optimized {
	return &Optimized{db: db, digest: digest}
}

// ListUsers issues exactly one query regardless of user count. The LEFT JOIN
// keeps users with zero posts in the result with post_count 0.
func (s *Optimized) ListUsers(ctx context.Context) ([]models.UserWithPostCount, error) {
	result := []models.UserWithPostCount{}
	err := s.db.SelectContext(ctx, &result, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at,
		       COUNT(p.id) AS post_count
		FROM users u
		LEFT JOIN posts p ON u.id = p.user_id
		GROUP BY u.id, u.username, u.email, u.password_hash, u.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return result, nil
}

func (s *Optimized) GetUser(ctx context.Context, id int64) (*models.UserDetail, error) {
	return getUserDetail(ctx, s.db, id)
}

// CreateUser inserts with the uniqueness constraint live; a constraint
// violation is classified to ErrDuplicateUsername instead of surfacing as a
// raw driver fault.
func (s *Optimized) CreateUser(ctx context.Context, username, email, password string) (int64, error) {
	passwordHash := s.digest.Digest(password)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("store: create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: create user: %w", err)
	}
	return id, nil
}

func (s *Optimized) ListPosts(ctx context.Context) ([]models.PostWithAuthor, error) {
	return listPostsWithAuthor(ctx, s.db)
}

func (s *Optimized) GetPost(ctx context.Context, id int64) (*models.PostWithAuthor, error) {
	return getPostWithAuthor(ctx, s.db, id)
}

// SearchUsers delegates the exact match to the storage engine through the
// username index. An empty query returns immediately without touching storage.
func (s *Optimized) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	results := []models.User{}
	if query == "" {
		return results, nil
	}
	err := s.db.SelectContext(ctx, &results,
		`SELECT * FROM users WHERE username = ?`, query)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	return results, nil
}

func (s *Optimized) Reseed(ctx context.Context, users, posts int) (int, int, error) {
	return reseed(ctx, s.db, users, posts)
}
