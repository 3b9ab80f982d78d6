package model

import "time"

// Profile is the protected user's display info, mirrored from the
// identity provider at sign-up.
type Profile struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	FullName  string    `bson:"full_name" json:"full_name"`
	Email     string    `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
