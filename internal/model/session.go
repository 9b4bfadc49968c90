package model

import "time"

// Session is the signed-in state of one browser. The zero value is the
// guest session.
type Session struct {
	Token     string
	Role      Role
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
