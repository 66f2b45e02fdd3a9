package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"fleetctl/pkg/api"
	"fleetctl/pkg/session"
	"fleetctl/pkg/store"
)

const (
	signInPath = "/authentication/sign-in"
	signUpPath = "/authentication/sign-up"
)

// ErrSuperseded means a sign-in succeeded on the wire but the session changed
// while it was in flight (forced invalidation or another sign-in), so the
// result was discarded instead of overwriting the newer state.
var ErrSuperseded = errors.New("session changed during sign-in")

// SignUpRequest is the registration payload. Roles defaults to [ROLE_USER]
// when left empty.
type SignUpRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Roles    []session.Role `json:"roles"`
}

// Result is what Login and Register hand back for the caller to decide
// post-login navigation.
type Result struct {
	ID       int64
	Username string
	Roles    []session.Role
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	Token    string         `json:"token"`
	Roles    []session.Role `json:"roles"`
}

type ServiceInterface interface {
	Login(ctx context.Context, username, password string) (*Result, error)
	Register(ctx context.Context, req SignUpRequest) (*Result, error)
	Logout()
	Rehydrate()
}

// Service combines the network calls against the authentication endpoints
// with the session container and durable store updates. It is the only
// writer of the session besides the authenticator's 401 path.
type Service struct {
	API      *api.Client
	Sessions *session.Container
	Store    store.Store
	Logger   *slog.Logger
}

func NewService(apiClient *api.Client, sessions *session.Container, st store.Store, logger *slog.Logger) *Service {
	return &Service{API: apiClient, Sessions: sessions, Store: st, Logger: logger}
}

// Login authenticates against the backend. On success the container and the
// durable store hold the new session by the time Login returns. On failure
// the container is reset and the error goes back to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	_, epoch := s.Sessions.Snapshot()

	var resp authResponse
	err := s.API.Do(ctx, http.MethodPost, signInPath, nil, credentials{Username: username, Password: password}, &resp)
	if err != nil {
		s.Sessions.Reset()
		s.Logger.Error("sign-in failed", "username", username, "error", err)
		return nil, err
	}
	return s.commit(epoch, resp)
}

// Register creates an account; the contract mirrors Login.
func (s *Service) Register(ctx context.Context, req SignUpRequest) (*Result, error) {
	if len(req.Roles) == 0 {
		req.Roles = []session.Role{session.RoleUser}
	}
	_, epoch := s.Sessions.Snapshot()

	var resp authResponse
	err := s.API.Do(ctx, http.MethodPost, signUpPath, nil, req, &resp)
	if err != nil {
		s.Sessions.Reset()
		s.Logger.Error("sign-up failed", "username", req.Username, "error", err)
		return nil, err
	}
	return s.commit(epoch, resp)
}

// Logout is purely local: no network call, just clear both sides.
func (s *Service) Logout() {
	s.Sessions.Reset()
	if err := s.Store.Clear(); err != nil {
		s.Logger.Error("clear session store on logout", "error", err)
	}
	s.Logger.Info("signed out")
}

// Rehydrate reconstructs the in-memory session from the durable store when
// no session is live yet. Identity fields are placeholders until a profile
// fetch exists; authorization capability (token and roles) is restored in
// full. Safe to call any number of times.
func (s *Service) Rehydrate() {
	if s.Sessions.Current().Authenticated() {
		return
	}

	token, roles, err := s.Store.Load()
	if err != nil {
		// Corrupt or unreadable persisted state counts as no session at all.
		s.Logger.Warn("discarding persisted session", "error", err)
		if clearErr := s.Store.Clear(); clearErr != nil {
			s.Logger.Error("clear corrupt session store", "error", clearErr)
		}
		return
	}
	if token == "" {
		return
	}
	if len(roles) == 0 {
		roles = []session.Role{session.RoleUser}
	}

	s.Sessions.Set(session.Session{
		ID:       0,
		Username: "user",
		Token:    token,
		Roles:    roles,
	})
	s.Logger.Info("session restored from durable store", "roles", roles)
}

func (s *Service) commit(epoch uint64, resp authResponse) (*Result, error) {
	sess := session.Session{
		ID:       resp.ID,
		Username: resp.Username,
		Token:    resp.Token,
		Roles:    resp.Roles,
	}
	if !s.Sessions.SetIfUnchanged(sess, epoch) {
		s.Logger.Warn("discarding stale sign-in result", "username", resp.Username)
		return nil, ErrSuperseded
	}
	if err := s.Store.Save(resp.Token, resp.Roles); err != nil {
		// The live session is already committed; losing persistence only
		// costs the next restart a login.
		s.Logger.Error("persist session", "error", err)
	}
	s.Logger.Info("signed in", "username", resp.Username, "roles", resp.Roles)
	return &Result{ID: resp.ID, Username: resp.Username, Roles: resp.Roles}, nil
}
