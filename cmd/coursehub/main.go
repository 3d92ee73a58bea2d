package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/coursehub"
	"github.com/eringen/coursehub/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "hash-password":
		if err := runHashPassword(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("coursehub %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := coursehub.LoadConfig()
	if err != nil {
		return err
	}
	app := coursehub.New(cfg, views.New(cfg))
	if err := app.Init(); err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		app.Echo.Logger.Infof("listening on %s", cfg.Addr)
		if err := app.Echo.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

// runHashPassword prints a bcrypt hash for ADMIN_PASSWORD_HASH. The
// password comes from the argument or, when absent, from stdin.
func runHashPassword(args []string) error {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	fmt.Println(string(hash))
	return nil
}

func printUsage() {
	fmt.Println(`coursehub - A course-review blog with an admin CMS

Usage:
  coursehub <command> [arguments]

Commands:
  serve                 Start the web server (configured via environment)
  hash-password [pw]    Print a bcrypt hash for ADMIN_PASSWORD_HASH
  version               Print the coursehub version
  help                  Show this help message

Environment:
  ADMIN_SESSION_SECRET  Required session encryption secret
  SITE_URL, ADDR, STATIC_DIR, SNAPSHOT_PATH, LOG_LEVEL
  ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_PASSWORD_HASH, COOKIE_SECURE
  LATENCY_READ, LATENCY_LIST, LATENCY_WRITE, INDEX_TTL`)
}
