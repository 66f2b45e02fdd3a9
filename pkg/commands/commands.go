package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"fleetctl/pkg/auth"
	"fleetctl/pkg/fleet"
	"fleetctl/pkg/router"
	"fleetctl/pkg/session"
)

// Deps carries everything the command handlers need.
type Deps struct {
	Auth     auth.ServiceInterface
	Buses    *fleet.BusService
	Brands   *fleet.BrandService
	Sessions *session.Container
	Router   *router.Router
	Out      io.Writer
	Logger   *slog.Logger
}

const usage = `usage: fleetctl <command> [flags]

commands:
  login     -username <name> -password <password>
  register  -username <name> -password <password> [-admin]
  logout
  whoami
  open      <page>                    (sign-in, sign-up, home, dashboard, fleet, bus-brands)
  back
  bus       list|get|create|update|activate|deactivate|delete [flags]
  brand     list|search|create|dependencies|delete|force-delete [flags]
`

// Run dispatches one CLI invocation.
func Run(ctx context.Context, d Deps, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(d.Out, usage)
		return nil
	}

	switch args[0] {
	case "login":
		return runLogin(ctx, d, args[1:])
	case "register":
		return runRegister(ctx, d, args[1:])
	case "logout":
		d.Auth.Logout()
		return d.Router.Navigate(ctx, "sign-in")
	case "whoami":
		return runWhoami(d)
	case "open":
		if len(args) < 2 {
			return errors.New("open: missing page name")
		}
		return d.Router.Navigate(ctx, args[1])
	case "back":
		return d.Router.Back(ctx)
	case "bus":
		return runBus(ctx, d, args[1:])
	case "brand":
		return runBrand(ctx, d, args[1:])
	default:
		fmt.Fprint(d.Out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runLogin(ctx context.Context, d Deps, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login: -username and -password are required")
	}

	result, err := d.Auth.Login(ctx, *username, *password)
	if err != nil {
		return fmt.Errorf("sign-in: %w", err)
	}
	fmt.Fprintf(d.Out, "Signed in as %s\n", result.Username)
	return d.Router.Navigate(ctx, "home")
}

func runRegister(ctx context.Context, d Deps, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "account password")
	admin := fs.Bool("admin", false, "request the administrator role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("register: -username and -password are required")
	}

	req := auth.SignUpRequest{Username: *username, Password: *password}
	if *admin {
		req.Roles = []session.Role{session.RoleUser, session.RoleAdmin}
	}
	result, err := d.Auth.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("sign-up: %w", err)
	}
	fmt.Fprintf(d.Out, "Signed up as %s\n", result.Username)
	return d.Router.Navigate(ctx, "home")
}

func runWhoami(d Deps) error {
	cur := d.Sessions.Current()
	if !cur.Authenticated() {
		fmt.Fprintln(d.Out, "not signed in")
		return nil
	}
	fmt.Fprintf(d.Out, "%s (id=%d) roles=%v\n", cur.Username, cur.ID, cur.Roles)
	return nil
}

func runBus(ctx context.Context, d Deps, args []string) error {
	if len(args) == 0 {
		return errors.New("bus: missing subcommand")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := flag.NewFlagSet("bus list", flag.ContinueOnError)
		page := pageFlags(fs, "number")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		result, err := d.Buses.List(ctx, *page)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "page %d/%d (%d total)\n", result.Page+1, result.TotalPages, result.TotalElements)
		for _, b := range result.Content {
			fmt.Fprintf(d.Out, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Number, b.LicensePlate, b.Brand, b.Status)
		}
		return nil

	case "get":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		b, err := d.Buses.Get(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "%d\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Number, b.LicensePlate, b.Brand, b.Features, b.Status)
		return nil

	case "create":
		fs := flag.NewFlagSet("bus create", flag.ContinueOnError)
		number := fs.String("number", "", "bus number")
		plate := fs.String("plate", "", "license plate")
		brandID := fs.Int64("brand-id", 0, "brand id")
		features := fs.String("features", "", "feature list")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		b, err := d.Buses.Create(ctx, fleet.CreateBusRequest{
			Number:       *number,
			LicensePlate: *plate,
			BrandID:      *brandID,
			Features:     *features,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "created bus %d\n", b.ID)
		return nil

	case "update":
		fs := flag.NewFlagSet("bus update", flag.ContinueOnError)
		id := fs.Int64("id", 0, "bus id")
		number := fs.String("number", "", "bus number")
		plate := fs.String("plate", "", "license plate")
		brandID := fs.Int64("brand-id", 0, "brand id")
		features := fs.String("features", "", "feature list")
		status := fs.String("status", "", "ACTIVE or INACTIVE")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 {
			return errors.New("bus update: -id is required")
		}
		var req fleet.UpdateBusRequest
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "number":
				req.Number = number
			case "plate":
				req.LicensePlate = plate
			case "brand-id":
				req.BrandID = brandID
			case "features":
				req.Features = features
			case "status":
				s := fleet.BusStatus(*status)
				req.Status = &s
			}
		})
		b, err := d.Buses.Update(ctx, *id, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "updated bus %d\n", b.ID)
		return nil

	case "activate", "deactivate":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		var b *fleet.Bus
		if sub == "activate" {
			b, err = d.Buses.Activate(ctx, id)
		} else {
			b, err = d.Buses.Deactivate(ctx, id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "bus %d is now %s\n", b.ID, b.Status)
		return nil

	case "delete":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := d.Buses.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "deleted bus %d\n", id)
		return nil

	default:
		return fmt.Errorf("bus: unknown subcommand %q", sub)
	}
}

func runBrand(ctx context.Context, d Deps, args []string) error {
	if len(args) == 0 {
		return errors.New("brand: missing subcommand")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		all, err := d.Brands.All(ctx)
		if err != nil {
			return err
		}
		for _, b := range all {
			fmt.Fprintf(d.Out, "%d\t%s\n", b.ID, b.Name)
		}
		return nil

	case "search":
		fs := flag.NewFlagSet("brand search", flag.ContinueOnError)
		name := fs.String("name", "", "name fragment")
		page := pageFlags(fs, "name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		result, err := d.Brands.SearchByName(ctx, *name, *page)
		if err != nil {
			return err
		}
		for _, b := range result.Content {
			fmt.Fprintf(d.Out, "%d\t%s\n", b.ID, b.Name)
		}
		return nil

	case "create":
		fs := flag.NewFlagSet("brand create", flag.ContinueOnError)
		name := fs.String("name", "", "brand name")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *name == "" {
			return errors.New("brand create: -name is required")
		}
		b, err := d.Brands.Create(ctx, fleet.CreateBusBrandRequest{Name: *name})
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "created brand %d\n", b.ID)
		return nil

	case "dependencies":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		deps, err := d.Brands.Dependencies(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "%s: %d active, %d inactive, %d total; deletable=%v\n",
			deps.BrandName, deps.ActiveBusesCount, deps.InactiveBusesCount, deps.TotalBusesCount, deps.CanBeDeleted)
		return nil

	case "delete":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := d.Brands.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "deleted brand %d\n", id)
		return nil

	case "force-delete":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := d.Brands.ForceDelete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(d.Out, "deleted brand %d and its buses\n", id)
		return nil

	default:
		return fmt.Errorf("brand: unknown subcommand %q", sub)
	}
}

func pageFlags(fs *flag.FlagSet, defaultSort string) *fleet.PageRequest {
	req := &fleet.PageRequest{}
	fs.IntVar(&req.Page, "page", 0, "page number, starting at 0")
	fs.IntVar(&req.Size, "size", 10, "page size")
	fs.StringVar(&req.SortBy, "sort", defaultSort, "sort field")
	fs.StringVar(&req.SortDirection, "direction", "asc", "asc or desc")
	return req
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("missing id argument")
	}
	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("bad id %q", args[0])
	}
	return id, nil
}
