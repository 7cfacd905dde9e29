package entity

import "time"

// User is an identity record addressed by a short numeric code in chat
// commands. Exactly one admin exists per deployment; it is created on
// first boot and cannot be deleted.
type User struct {
	ID        int64     `json:"id"`
	UserCode  string    `json:"user_code"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
