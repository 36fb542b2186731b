package model

import "time"

// Contact は連絡先を表す。
type Contact struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	FavoriteColor string
	Birthday      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
