package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/padesk/internal/auth"
	"github.com/matheus3301/padesk/internal/bus"
	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/config"
	"github.com/matheus3301/padesk/internal/dashboard"
	"github.com/matheus3301/padesk/internal/profile"
	"github.com/matheus3301/padesk/internal/resource"
	"github.com/matheus3301/padesk/internal/store"
	"github.com/matheus3301/padesk/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	verbose := flag.Bool("v", false, "also log to stderr")
	flag.Parse()

	cfg, err := loadConfig(profile.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	profileName := profile.Resolve(*profileFlag, cfg)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var (
		sess   *auth.Session
		set    *resource.Set
		engine *chat.Engine
		poller *chat.Poller
		b      *bus.Bus
		db     *store.DB
		logger *zap.Logger
	)
	app := fx.New(
		dashboard.Module(dashboard.Params{ProfileName: profileName, Config: cfg, Console: *verbose}),
		fx.Populate(&sess, &set, &engine, &poller, &b, &db, &logger),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	deps := tui.Deps{
		Profile:   profileName,
		APIBase:   cfg.API.BaseURL,
		Session:   sess,
		Resources: set,
		Engine:    engine,
		Poller:    poller,
		Bus:       b,
		Store:     db,
		Logger:    logger,
	}
	runErr := tui.NewApp(deps).Run()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: shutdown: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// loadConfig reads the config file, writing the defaults on first run so
// there is a file to edit.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.Default()
		if err := config.Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.LoadOrDefault(path)
}
