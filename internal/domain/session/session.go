package session

import "encoding/json"

// User is the cached profile returned by login and /api/auth/me/.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Session bundles the token pair with the profile it belongs to.
// Invariant: a session with no access token carries no user; the token
// store enforces it on write.
type Session struct {
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// DecodeUser parses a cached profile blob. Malformed JSON reads as absent,
// not as an error: a corrupt cache must never block the UI.
func DecodeUser(raw []byte) *User {
	if len(raw) == 0 {
		return nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}
