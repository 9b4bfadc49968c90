package model

import "strings"

// Role is the access tier carried by a bearer token.
type Role int

const (
	Guest Role = iota
	User
	Manager
)

func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return User
	case "manager":
		return Manager
	default:
		return Guest
	}
}

func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Manager:
		return "manager"
	default:
		return "guest"
	}
}

type Capability int

const (
	CapViewDocuments Capability = iota + 1
	CapUploadDocuments
	CapManageDocuments
	CapViewDirectory
	CapManageUsers
	CapTogglePresence
)

// Can reports whether the role grants c. Both the router and the manager
// views check access through this predicate.
func (r Role) Can(c Capability) bool {
	switch r {
	case Manager:
		return true
	case User:
		return c == CapViewDocuments || c == CapTogglePresence
	default:
		return false
	}
}
