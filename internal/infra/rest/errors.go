package rest

import (
	"encoding/json"
	"sort"
)

// APIError is the one error shape the request core produces. Status is 0
// when the request never produced a response (transport failure).
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.cause }

// The API answers bearer-required endpoints hit without credentials with
// this exact sentence; it is rewritten into a prompt a shopper can act on.
const (
	credentialsNotProvided = "Authentication credentials were not provided."
	loginPrompt            = "Please login or Sign up to make a purchase"
)

// extractMessage digs one human-readable sentence out of an error payload:
// a string is taken as-is (with the login rewrite), an array yields its
// first element, an object yields its "detail" value or, failing that, the
// value of its first key. Anything else yields "" and the caller falls
// back to "HTTP <status>".
func extractMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return firstMessage(payload)
}

func firstMessage(payload any) string {
	switch v := payload.(type) {
	case string:
		if v == credentialsNotProvided {
			return loginPrompt
		}
		return v
	case []any:
		if len(v) == 0 {
			return ""
		}
		return firstMessage(v[0])
	case map[string]any:
		if detail, ok := v["detail"]; ok {
			return firstMessage(detail)
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			return ""
		}
		sort.Strings(keys)
		return firstMessage(v[keys[0]])
	default:
		return ""
	}
}
