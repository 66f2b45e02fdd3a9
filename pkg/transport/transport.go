package transport

import (
	"log/slog"
	"net/http"

	"fleetctl/pkg/session"
	"fleetctl/pkg/store"

	"github.com/google/uuid"
)

// Navigator moves the application to a named destination. The router
// implements it; tests substitute their own.
type Navigator interface {
	NavigateTo(destination string)
}

// Authenticator wraps every outgoing backend call. On the way out it attaches
// the current bearer token (container first, durable store as fallback) and a
// request id. On the way back a 401 forces the session out: container reset,
// store cleared, navigation to the sign-in destination. The reset is guarded
// by the container epoch observed when the request left, so of several
// concurrent 401s only the first one navigates, and a 401 racing a newer
// login cannot clobber the new session.
type Authenticator struct {
	Base     http.RoundTripper
	Sessions *session.Container
	Store    store.Store
	Nav      Navigator
	SignIn   string
	Logger   *slog.Logger
}

func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	cur, epoch := a.Sessions.Snapshot()
	token := cur.Token
	if token == "" && a.Store != nil {
		stored, _, err := a.Store.Load()
		if err == nil {
			token = stored
		}
	}

	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	out.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := a.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		a.invalidate(epoch, req)
	}
	return resp, nil
}

func (a *Authenticator) invalidate(epoch uint64, req *http.Request) {
	if !a.Sessions.ResetIfUnchanged(epoch) {
		// Session already mutated since this request left: either another
		// 401 cleared it first, or a newer login replaced it. Either way
		// this 401 is stale.
		return
	}
	if a.Store != nil {
		if err := a.Store.Clear(); err != nil {
			a.Logger.Error("clear session store after 401", "error", err)
		}
	}
	a.Logger.Info("session rejected by backend", "method", req.Method, "path", req.URL.Path)
	if a.Nav != nil {
		a.Nav.NavigateTo(a.SignIn)
	}
}

func (a *Authenticator) base() http.RoundTripper {
	if a.Base != nil {
		return a.Base
	}
	return http.DefaultTransport
}
