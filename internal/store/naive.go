package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/perflab/perfapi/internal/hash"
	"github.com/perflab/perfapi/internal/models"
)

// Naive runs against the unindexed schema and keeps every deliberate
// bottleneck of the demonstration: the N+1 listing, the quadratic in-memory
// search with per-match refetches, and the iterated credential digest.
type Naive struct {
	db     *sqlx.DB
	digest hash.Digester
}

func NewNaive(db *sqlx.DB, digest hash.Digester) *Naive {
	return &Naive{db: db, digest: digest}
}

// ListUsers fetches all users, then issues one COUNT query per user.
// Total query count is 1 + len(users).
func (s *Naive) ListUsers(ctx context.Context) ([]models.UserWithPostCount, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT * FROM users`); err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}

	result := make([]models.UserWithPostCount, 0, len(users))
	for _, u := range users {
		var count int64
		err := s.db.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM posts WHERE user_id = ?`, u.ID)
		if err != nil {
			return nil, fmt.Errorf("store: count posts for user %d: %w", u.ID, err)
		}
		result = append(result, models.UserWithPostCount{User: u, PostCount: count})
	}
	return result, nil
}

func (s *Naive) GetUser(ctx context.Context, id int64) (*models.UserDetail, error) {
	return getUserDetail(ctx, s.db, id)
}

// CreateUser derives the credential digest (1000 rounds in this mode) and
// inserts. The schema has no uniqueness constraint, so duplicate usernames
// insert silently as distinct users.
func (s *Naive) CreateUser(ctx context.Context, username, email, password string) (int64, error) {
	passwordHash := s.digest.Digest(password)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("store: create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: create user: %w", err)
	}
	return id, nil
}

func (s *Naive) ListPosts(ctx context.Context) ([]models.PostWithAuthor, error) {
	return listPostsWithAuthor(ctx, s.db)
}

func (s *Naive) GetPost(ctx context.Context, id int64) (*models.PostWithAuthor, error) {
	return getPostWithAuthor(ctx, s.db, id)
}

// SearchUsers materializes the whole table, runs a quadratic comparison over
// the username slice, then refetches each match with a separate point query.
// Equivalent to one linear scan; performs n*n comparisons on purpose.
func (s *Naive) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	all := []models.User{}
	if err := s.db.SelectContext(ctx, &all, `SELECT * FROM users`); err != nil {
		return nil, fmt.Errorf("store: search scan: %w", err)
	}

	usernames := make([]string, len(all))
	for i, u := range all {
		usernames[i] = u.Username
	}

	found := []string{}
	for i := range usernames {
		for j := range usernames {
			if i == j && usernames[i] == query {
				found = append(found, usernames[i])
			}
		}
	}

	results := []models.User{}
	for _, name := range found {
		var u models.User
		err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = ?`, name)
		if err != nil {
			// Row already seen on the first fetch; a miss here means it
			// vanished mid-flight, skip it.
			continue
		}
		results = append(results, u)
	}
	return results, nil
}

func (s *Naive) Reseed(ctx context.Context, users, posts int) (int, int, error) {
	return reseed(ctx, s.db, users, posts)
}
