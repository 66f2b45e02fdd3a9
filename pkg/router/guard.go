package router

import (
	"context"
	"fmt"
	"io"

	"fleetctl/pkg/session"
)

// Guard gates views on the current session. Guards only read the session;
// the one exception is the rehydration check wired into Private, which may
// restore a persisted session before the gate evaluates.
type Guard struct {
	Sessions  *session.Container
	Rehydrate func()
	Router    *Router
	SignIn    string
}

// Private renders next only for an authenticated session and navigates to
// the sign-in destination otherwise.
func (g *Guard) Private(next View) View {
	return func(ctx context.Context, w io.Writer) error {
		if g.Rehydrate != nil {
			g.Rehydrate()
		}
		if !g.Sessions.Current().Authenticated() {
			return g.Router.Navigate(ctx, g.SignIn)
		}
		return next(ctx, w)
	}
}

// RequireRole wraps an already-authenticated region. A session missing the
// role gets an explicit access-denied state with a way back, not a redirect;
// an unauthenticated session still goes to sign-in.
func (g *Guard) RequireRole(role session.Role, next View) View {
	return func(ctx context.Context, w io.Writer) error {
		cur := g.Sessions.Current()
		if !cur.Authenticated() {
			return g.Router.Navigate(ctx, g.SignIn)
		}
		if !cur.HasRole(role) {
			fmt.Fprintln(w, "Access Denied")
			fmt.Fprintln(w, "You need administrator privileges to access this page.")
			if prev := g.Router.Previous(); prev != "" {
				fmt.Fprintf(w, "Go back with: fleetctl open %s\n", prev)
			}
			return nil
		}
		return next(ctx, w)
	}
}
