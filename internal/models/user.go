package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"password_hash"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserWithPostCount is the row shape of the users listing: every user
// annotated with how many posts it owns.
type UserWithPostCount struct {
	User
	PostCount int64 `db:"post_count" json:"post_count"`
}

// UserDetail is a single user together with all of its posts in insertion
// order.
type UserDetail struct {
	User
	Posts []Post `json:"posts"`
}
