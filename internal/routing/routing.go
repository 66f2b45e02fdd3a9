package routing

import (
	"fleetctl/pkg/fleet"
	"fleetctl/pkg/router"
	"fleetctl/pkg/session"
	"fleetctl/pkg/views"
)

// InitViews wires every page of the application into the router. Sign-in and
// sign-up are public; everything else sits behind the authenticated gate, and
// the fleet pages additionally behind the admin role gate.
func InitViews(r *router.Router, g *router.Guard, sessions *session.Container, buses *fleet.BusService, brands *fleet.BrandService) {
	r.Handle("sign-in", views.SignIn())
	r.Handle("sign-up", views.SignUp())

	r.Handle("home", g.Private(views.Home(sessions)))
	r.Handle("dashboard", g.Private(views.Dashboard(sessions)))

	r.Handle("fleet", g.Private(g.RequireRole(session.RoleAdmin, views.Fleet(buses))))
	r.Handle("bus-brands", g.Private(g.RequireRole(session.RoleAdmin, views.BusBrands(brands))))
}
