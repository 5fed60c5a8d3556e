// Package models defines the NotesVault entities shared by the server
// stores, the REST layer and the terminal client.
package models

import "time"

// User is a registered account. It is created once at registration and
// never modified afterwards.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	SecretHash []byte    `json:"-"`
	SecretSalt []byte    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
