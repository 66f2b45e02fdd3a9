package views

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"fleetctl/pkg/fleet"
	"fleetctl/pkg/router"
	"fleetctl/pkg/session"
)

// SignIn is the entry point every unauthenticated or rejected navigation
// lands on.
func SignIn() router.View {
	return func(ctx context.Context, w io.Writer) error {
		fmt.Fprintln(w, "Welcome Back")
		fmt.Fprintln(w, "Please sign in to your account:")
		fmt.Fprintln(w, "  fleetctl login -username <name> -password <password>")
		return nil
	}
}

func SignUp() router.View {
	return func(ctx context.Context, w io.Writer) error {
		fmt.Fprintln(w, "Create an account:")
		fmt.Fprintln(w, "  fleetctl register -username <name> -password <password>")
		return nil
	}
}

// Home greets the user and lists the sections available to their roles,
// like the original header menu.
func Home(sessions *session.Container) router.View {
	return func(ctx context.Context, w io.Writer) error {
		cur := sessions.Current()
		fmt.Fprintf(w, "Welcome, %s\n", cur.Username)
		fmt.Fprintln(w, "Available pages:")
		fmt.Fprintln(w, "  home")
		fmt.Fprintln(w, "  dashboard")
		if cur.HasRole(session.RoleAdmin) {
			fmt.Fprintln(w, "  fleet")
			fmt.Fprintln(w, "  bus-brands")
		}
		return nil
	}
}

// Dashboard shows the session summary.
func Dashboard(sessions *session.Container) router.View {
	return func(ctx context.Context, w io.Writer) error {
		cur := sessions.Current()
		fmt.Fprintln(w, "Dashboard")
		fmt.Fprintf(w, "Username: %s\n", cur.Username)
		fmt.Fprintf(w, "Roles:    %v\n", cur.Roles)
		return nil
	}
}

// Fleet renders the first page of the bus listing, sorted the way the
// original fleet page opens.
func Fleet(buses *fleet.BusService) router.View {
	return func(ctx context.Context, w io.Writer) error {
		page, err := buses.List(ctx, fleet.PageRequest{
			Page:          0,
			Size:          10,
			SortBy:        "number",
			SortDirection: "asc",
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Fleet Management (%d total buses)\n", page.TotalElements)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNUMBER\tPLATE\tBRAND\tSTATUS")
		for _, b := range page.Content {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Number, b.LicensePlate, b.Brand, b.Status)
		}
		return tw.Flush()
	}
}

// BusBrands renders the brand catalog.
func BusBrands(brands *fleet.BrandService) router.View {
	return func(ctx context.Context, w io.Writer) error {
		all, err := brands.All(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Bus Brands (%d)\n", len(all))
		for _, b := range all {
			fmt.Fprintf(w, "  %d\t%s\n", b.ID, b.Name)
		}
		return nil
	}
}
