// Package authn drives the account flows: register, login, profile
// refresh, password reset and sign-out. Login persists the session through
// the token store; everything downstream reads tokens from there.
package authn

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"example.com/dukatech/client/internal/domain/session"
	"example.com/dukatech/client/internal/infra/rest"
)

// Sessions is what the service needs from the token store.
type Sessions interface {
	SetSession(sess session.Session) error
	Clear() error
	AccessToken() string
	CachedUser() *session.User
}

type Service struct {
	rc       *rest.Client
	sessions Sessions
	validate *validator.Validate
}

func NewService(rc *rest.Client, sessions Sessions) *Service {
	return &Service{rc: rc, sessions: sessions, validate: validator.New()}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordInput struct {
	UID         string `json:"uid" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type loginResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *session.User `json:"user"`
}

// Register creates an account. It does not sign the user in; the original
// flow routes to login afterwards.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*session.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	var u session.User
	if err := s.rc.Post(ctx, "/api/auth/register/", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token pair plus profile and persists
// them. The token store publishes auth-changed as part of the write.
func (s *Service) Login(ctx context.Context, in LoginInput) (*session.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	var res loginResponse
	if err := s.rc.Post(ctx, "/api/auth/login/", in, &res); err != nil {
		return nil, err
	}
	if res.Access == "" {
		return nil, fmt.Errorf("authn: login response carried no access token")
	}
	if err := s.sessions.SetSession(session.Session{
		Access:  res.Access,
		Refresh: res.Refresh,
		User:    res.User,
	}); err != nil {
		return nil, err
	}
	return res.User, nil
}

// Me verifies the session against the server and refreshes the cached
// profile. A rejected token clears the session so the cached user never
// outlives its credentials.
func (s *Service) Me(ctx context.Context) (*session.User, error) {
	if s.sessions.AccessToken() == "" {
		return nil, session.ErrNoSession
	}
	var u session.User
	if err := s.rc.AuthGet(ctx, "/api/auth/me/", &u); err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
			_ = s.sessions.Clear()
		}
		return nil, err
	}
	if err := s.sessions.SetSession(session.Session{User: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// CachedUser returns the locally cached profile for instant paint; callers
// wanting a server-confirmed profile use Me.
func (s *Service) CachedUser() *session.User {
	return s.sessions.CachedUser()
}

// ForgotPassword requests a reset link. The server always answers 200 to
// avoid email enumeration, so success only means "request accepted".
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	in := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: email}
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	return s.rc.Post(ctx, "/api/auth/forgot-password/", in, nil)
}

// ResetPassword completes a reset with the uid/token pair from the link.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	return s.rc.Post(ctx, "/api/auth/reset-password/", in, nil)
}

// SignOut clears the persisted session.
func (s *Service) SignOut() error {
	return s.sessions.Clear()
}
