package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"fleetctl/internal/config"
	"fleetctl/internal/logger"
	"fleetctl/internal/routing"
	"fleetctl/pkg/api"
	"fleetctl/pkg/auth"
	"fleetctl/pkg/commands"
	"fleetctl/pkg/fleet"
	"fleetctl/pkg/router"
	"fleetctl/pkg/session"
	"fleetctl/pkg/store"
	"fleetctl/pkg/transport"

	_ "github.com/mattn/go-sqlite3"
)

const signInDestination = "sign-in"

func main() {
	cfg := config.Load()
	logger := logger.Load(cfg.LogLevel)

	sessionStore := openStore(cfg)
	sessions := session.NewContainer()

	r := router.New(os.Stdout, signInDestination, logger)

	httpClient := &http.Client{
		Transport: &transport.Authenticator{
			Sessions: sessions,
			Store:    sessionStore,
			Nav:      r,
			SignIn:   signInDestination,
			Logger:   logger,
		},
		Timeout: 15 * time.Second,
	}

	apiClient := api.NewClient(cfg.APIURL, httpClient, logger)
	authService := auth.NewService(apiClient, sessions, sessionStore, logger)
	buses := fleet.NewBusService(apiClient)
	brands := fleet.NewBrandService(apiClient)

	guard := &router.Guard{
		Sessions:  sessions,
		Rehydrate: authService.Rehydrate,
		Router:    r,
		SignIn:    signInDestination,
	}
	routing.InitViews(r, guard, sessions, buses, brands)

	authService.Rehydrate()

	deps := commands.Deps{
		Auth:     authService,
		Buses:    buses,
		Brands:   brands,
		Sessions: sessions,
		Router:   r,
		Out:      os.Stdout,
		Logger:   logger,
	}

	if err := commands.Run(context.Background(), deps, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) store.Store {
	if cfg.SessionDSN != "" {
		db, err := sql.Open("sqlite3", cfg.SessionDSN)
		if err != nil {
			log.Fatal("Cannot open session database:", err)
		}
		st, err := store.NewSQLStore(db)
		if err != nil {
			log.Fatal("Cannot prepare session database:", err)
		}
		return st
	}

	st, err := store.NewFileStore(cfg.SessionDir)
	if err != nil {
		log.Fatal("Cannot prepare session dir:", err)
	}
	return st
}
