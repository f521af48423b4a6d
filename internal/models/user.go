package models

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
}

// Identity is the verified payload of a session token.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
