// ABOUTME: Entry point for the studiod booking server
// ABOUTME: Serves the REST API and provides a bootstrap command for seeding accounts

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/studiod/studiod/internal/api"
	"github.com/studiod/studiod/internal/auth"
	"github.com/studiod/studiod/internal/config"
	"github.com/studiod/studiod/internal/session"
	"github.com/studiod/studiod/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the studiod config file.
// Priority: STUDIOD_CONFIG env var > XDG_CONFIG_HOME/studiod/studiod.yaml > ~/.config/studiod/studiod.yaml
func getConfigPath() string {
	if envPath := os.Getenv("STUDIOD_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "studiod.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "studiod", "studiod.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: studiod <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                               Start the booking server")
		fmt.Println("  bootstrap --email E --password P    Seed an account (and default teachers)")
		fmt.Println("  version                             Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "bootstrap":
		err = runBootstrap(ctx, os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging configures the default slog logger from config.
func setupLogging(cfg config.LoggingConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return err
	}

	setupLogging(cfg.Logging)
	logger := slog.Default().With("component", "main")

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	codec := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenLifetime)
	authSvc := auth.NewService(st, codec)
	sessionSvc := session.NewService(st)

	router := api.NewRouter(api.RouterOptions{
		Handler:     api.NewHandler(authSvc, sessionSvc, st),
		Users:       st,
		Codec:       codec,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// defaultTeachers are seeded on bootstrap when the teachers table is empty.
var defaultTeachers = []store.Teacher{
	{FirstName: "Margot", LastName: "DELAHAYE"},
	{FirstName: "Helene", LastName: "THIERCELIN"},
}

func runBootstrap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	email := fs.String("email", "", "email for the account")
	password := fs.String("password", "", "password for the account")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	admin := fs.Bool("admin", false, "grant the admin flag")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return err
	}

	setupLogging(cfg.Logging)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		Email:        *email,
		FirstName:    *firstName,
		LastName:     *lastName,
		PasswordHash: hash,
		Admin:        *admin,
	}
	if err := st.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	teachers, err := st.ListTeachers(ctx)
	if err != nil {
		return fmt.Errorf("listing teachers: %w", err)
	}
	if len(teachers) == 0 {
		for i := range defaultTeachers {
			t := defaultTeachers[i]
			if err := st.CreateTeacher(ctx, &t); err != nil {
				return fmt.Errorf("seeding teacher: %w", err)
			}
		}
	}

	green := color.New(color.FgGreen, color.Bold)
	green.Println("Account created")
	fmt.Printf("  ID:    %d\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	if *admin {
		color.Yellow("  Admin: yes")
	}

	return nil
}
