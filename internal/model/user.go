package model

import "time"

// UserRecord is a resident account as returned by the auth API.
type UserRecord struct {
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	LastLogin   *Timestamp `json:"lastLogin,omitempty"`
	InResidence bool       `json:"inResidence,omitempty"`
	LastChanged *Timestamp `json:"lastChanged,omitempty"`
}

type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Presence is the self-reported occupancy flag of one resident.
type Presence struct {
	Username    string    `json:"username"`
	InResidence bool      `json:"inResidence"`
	LastChanged time.Time `json:"lastChanged"`
}
