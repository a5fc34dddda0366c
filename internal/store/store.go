// Package store owns the relational schema and every operation against it.
// Two implementations exist: Naive reproduces the deliberately inefficient
// access patterns (N+1 listing, quadratic search, iterated hashing) and
// Optimized the indexed, single-query equivalents. Both satisfy the same
// contract and produce the same logical results for the same data.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/perflab/perfapi/internal/hash"
	"github.com/perflab/perfapi/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store is the resource API both server modes expose over the users and
// posts tables.
type Store interface {
	ListUsers(ctx context.Context) ([]models.UserWithPostCount, error)
	GetUser(ctx context.Context, id int64) (*models.UserDetail, error)
	CreateUser(ctx context.Context, username, email, password string) (int64, error)
	ListPosts(ctx context.Context) ([]models.PostWithAuthor, error)
	GetPost(ctx context.Context, id int64) (*models.PostWithAuthor, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	Reseed(ctx context.Context, users, posts int) (int, int, error)
}

// classifyNoRows maps the driver's empty-result error to the given sentinel
// and wraps anything else as a storage fault.
func classifyNoRows(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("store: %w", err)
}

// getUserDetail is the two-query point lookup shared verbatim by both modes:
// a supporting index changes its cost in optimized mode, not its shape.
func getUserDetail(ctx context.Context, db *sqlx.DB, id int64) (*models.UserDetail, error) {
	var detail models.UserDetail
	err := db.GetContext(ctx, &detail.User, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, classifyNoRows(err, ErrUserNotFound)
	}

	detail.Posts = []models.Post{}
	if err := db.SelectContext(ctx, &detail.Posts, `SELECT * FROM posts WHERE user_id = ?`, id); err != nil {
		return nil, fmt.Errorf("store: user posts: %w", err)
	}
	return &detail, nil
}

// getPostWithAuthor is the join-restricted point lookup shared by both modes.
func getPostWithAuthor(ctx context.Context, db *sqlx.DB, id int64) (*models.PostWithAuthor, error) {
	var post models.PostWithAuthor
	err := db.GetContext(ctx, &post, `
		SELECT p.*, u.username
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = ?
	`, id)
	if err != nil {
		return nil, classifyNoRows(err, ErrPostNotFound)
	}
	return &post, nil
}

// listPostsWithAuthor joins every post to its owner. Identical SQL in both
// modes; only the presence of idx_posts_user_id differs.
func listPostsWithAuthor(ctx context.Context, db *sqlx.DB) ([]models.PostWithAuthor, error) {
	posts := []models.PostWithAuthor{}
	err := db.SelectContext(ctx, &posts, `
		SELECT p.*, u.username
		FROM posts p
		JOIN users u ON p.user_id = u.id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list posts: %w", err)
	}
	return posts, nil
}

// reseed clears both tables and repopulates them with generated rows. Seeded
// credentials always use the single-pass digest, in either mode. Destructive
// and unconditional; atomicity is per statement only.
func reseed(ctx context.Context, db *sqlx.DB, users, posts int) (int, int, error) {
	if _, err := db.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return 0, 0, fmt.Errorf("store: clear posts: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return 0, 0, fmt.Errorf("store: clear users: %w", err)
	}

	digest := hash.SinglePass{}

	ids := make([]int64, 0, users)
	for i := 0; i < users; i++ {
		res, err := db.ExecContext(ctx,
			`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
			fmt.Sprintf("user%d", i),
			fmt.Sprintf("user%d@example.com", i),
			digest.Digest(fmt.Sprintf("password%d", i)),
		)
		if err != nil {
			return len(ids), 0, fmt.Errorf("store: seed user %d: %w", i, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return len(ids), 0, fmt.Errorf("store: seed user %d: %w", i, err)
		}
		ids = append(ids, id)
	}

	if posts > 0 && len(ids) == 0 {
		return 0, 0, fmt.Errorf("store: seed posts: no users to own them")
	}

	inserted := 0
	for i := 0; i < posts; i++ {
		owner := ids[rand.Intn(len(ids))]
		_, err := db.ExecContext(ctx,
			`INSERT INTO posts (user_id, title, content) VALUES (?, ?, ?)`,
			owner,
			fmt.Sprintf("Post %d", i),
			strings.Repeat(fmt.Sprintf("This is the content of post %d. ", i), 10),
		)
		if err != nil {
			return len(ids), inserted, fmt.Errorf("store: seed post %d: %w", i, err)
		}
		inserted++
	}

	return len(ids), inserted, nil
}
