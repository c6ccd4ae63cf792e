package entity

import "time"

type User struct {
	ID        string
	Name      string
	Email     string
	Password  string // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}
