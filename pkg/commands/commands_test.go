package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetctl/pkg/api"
	"fleetctl/pkg/auth"
	"fleetctl/pkg/commands"
	"fleetctl/pkg/fleet"
	"fleetctl/pkg/router"
	"fleetctl/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (*auth.Result, error) {
	args := m.Called(ctx, username, password)
	result, _ := args.Get(0).(*auth.Result)
	return result, args.Error(1)
}

func (m *mockAuth) Register(ctx context.Context, req auth.SignUpRequest) (*auth.Result, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*auth.Result)
	return result, args.Error(1)
}

func (m *mockAuth) Logout() {
	m.Called()
}

func (m *mockAuth) Rehydrate() {
	m.Called()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func staticView(text string) router.View {
	return func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, text+"\n")
		return err
	}
}

func newDeps(t *testing.T, authSvc auth.ServiceInterface) (commands.Deps, *bytes.Buffer) {
	var out bytes.Buffer
	r := router.New(&out, "sign-in", testLogger())
	r.Handle("sign-in", staticView("please sign in"))
	r.Handle("home", staticView("welcome home"))
	return commands.Deps{
		Auth:     authSvc,
		Sessions: session.NewContainer(),
		Router:   r,
		Out:      &out,
		Logger:   testLogger(),
	}, &out
}

func TestRun_Login(t *testing.T) {
	t.Run("success navigates home", func(t *testing.T) {
		authSvc := &mockAuth{}
		authSvc.On("Login", mock.Anything, "alice", "pw").
			Return(&auth.Result{ID: 1, Username: "alice", Roles: []session.Role{session.RoleUser}}, nil)
		d, out := newDeps(t, authSvc)

		err := commands.Run(context.Background(), d, []string{"login", "-username", "alice", "-password", "pw"})

		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Signed in as alice")
		assert.Contains(t, out.String(), "welcome home")
		assert.Equal(t, "home", d.Router.Current())
		authSvc.AssertExpectations(t)
	})

	t.Run("missing flags", func(t *testing.T) {
		authSvc := &mockAuth{}
		d, _ := newDeps(t, authSvc)

		err := commands.Run(context.Background(), d, []string{"login", "-username", "alice"})

		assert.Error(t, err)
		authSvc.AssertNotCalled(t, "Login")
	})

	t.Run("failure surfaces the error", func(t *testing.T) {
		authSvc := &mockAuth{}
		authSvc.On("Login", mock.Anything, "alice", "bad").
			Return(nil, &api.Error{Status: http.StatusUnauthorized, Body: `{"message":"invalid credentials"}`})
		d, _ := newDeps(t, authSvc)

		err := commands.Run(context.Background(), d, []string{"login", "-username", "alice", "-password", "bad"})

		var apiErr *api.Error
		assert.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "", d.Router.Current())
	})
}

func TestRun_Register(t *testing.T) {
	t.Run("admin flag requests both roles", func(t *testing.T) {
		authSvc := &mockAuth{}
		authSvc.On("Register", mock.Anything, auth.SignUpRequest{
			Username: "root",
			Password: "pw",
			Roles:    []session.Role{session.RoleUser, session.RoleAdmin},
		}).Return(&auth.Result{ID: 2, Username: "root"}, nil)
		d, out := newDeps(t, authSvc)

		err := commands.Run(context.Background(), d, []string{"register", "-username", "root", "-password", "pw", "-admin"})

		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Signed up as root")
		authSvc.AssertExpectations(t)
	})

	t.Run("roles left empty without the flag", func(t *testing.T) {
		authSvc := &mockAuth{}
		authSvc.On("Register", mock.Anything, auth.SignUpRequest{Username: "bob", Password: "pw"}).
			Return(&auth.Result{ID: 3, Username: "bob"}, nil)
		d, _ := newDeps(t, authSvc)

		err := commands.Run(context.Background(), d, []string{"register", "-username", "bob", "-password", "pw"})

		assert.NoError(t, err)
		authSvc.AssertExpectations(t)
	})
}

func TestRun_Logout(t *testing.T) {
	authSvc := &mockAuth{}
	authSvc.On("Logout").Return()
	d, out := newDeps(t, authSvc)

	err := commands.Run(context.Background(), d, []string{"logout"})

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "please sign in")
	assert.Equal(t, "sign-in", d.Router.Current())
	authSvc.AssertExpectations(t)
}

func TestRun_Whoami(t *testing.T) {
	authSvc := &mockAuth{}
	d, out := newDeps(t, authSvc)

	assert.NoError(t, commands.Run(context.Background(), d, []string{"whoami"}))
	assert.Contains(t, out.String(), "not signed in")

	out.Reset()
	d.Sessions.Set(session.Session{ID: 7, Username: "alice", Token: "T1", Roles: []session.Role{session.RoleUser}})

	assert.NoError(t, commands.Run(context.Background(), d, []string{"whoami"}))
	assert.Contains(t, out.String(), "alice (id=7)")
}

func TestRun_OpenAndBack(t *testing.T) {
	authSvc := &mockAuth{}
	d, out := newDeps(t, authSvc)

	assert.NoError(t, commands.Run(context.Background(), d, []string{"open", "home"}))
	assert.NoError(t, commands.Run(context.Background(), d, []string{"open", "sign-in"}))
	out.Reset()

	assert.NoError(t, commands.Run(context.Background(), d, []string{"back"}))
	assert.Contains(t, out.String(), "welcome home")
	assert.Equal(t, "home", d.Router.Current())
}

func TestRun_UnknownCommand(t *testing.T) {
	authSvc := &mockAuth{}
	d, out := newDeps(t, authSvc)

	err := commands.Run(context.Background(), d, []string{"frobnicate"})

	assert.Error(t, err)
	assert.Contains(t, out.String(), "usage: fleetctl")
}

func TestRun_BusList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fleet.Page[fleet.Bus]{
			Content: []fleet.Bus{
				{ID: 1, Number: "B-101", LicensePlate: "ABC-123", Brand: "Mercedes", Status: fleet.BusActive},
			},
			Page: 0, Size: 10, TotalElements: 1, TotalPages: 1, First: true, Last: true,
		})
	}))
	defer srv.Close()

	d, out := newDeps(t, &mockAuth{})
	d.Buses = fleet.NewBusService(api.NewClient(srv.URL, &http.Client{}, testLogger()))

	err := commands.Run(context.Background(), d, []string{"bus", "list"})

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "page 1/1 (1 total)")
	assert.Contains(t, out.String(), "B-101")
}

func TestIDArgValidation(t *testing.T) {
	d, _ := newDeps(t, &mockAuth{})
	d.Buses = fleet.NewBusService(api.NewClient("http://unused", &http.Client{}, testLogger()))

	assert.Error(t, commands.Run(context.Background(), d, []string{"bus", "get"}))
	assert.Error(t, commands.Run(context.Background(), d, []string{"bus", "get", "abc"}))
	assert.Error(t, commands.Run(context.Background(), d, []string{"bus", "get", "-3"}))
}
