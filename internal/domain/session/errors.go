package session

import "errors"

var ErrNoSession = errors.New("not signed in")
