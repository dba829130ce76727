package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/svillanueva/mochila/internal/cli"
	"github.com/svillanueva/mochila/internal/engine"
	"github.com/svillanueva/mochila/internal/kvstore"
	"github.com/svillanueva/mochila/internal/remote"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	serverURL := os.Getenv("MOCHILA_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8082"
	}

	// Cache path: env var or default ~/.mochila/cache.db
	cachePath := os.Getenv("MOCHILA_DB")
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		cachePath = filepath.Join(home, ".mochila", "cache.db")
	}

	timeout := 15 * time.Second
	if v := os.Getenv("MOCHILA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MOCHILA_TIMEOUT %q: %w", v, err)
		}
		timeout = d
	}

	// Open the client-side cache. Degrade to in-memory if unavailable: the
	// cache is best-effort, the remote service is the source of truth.
	var store kvstore.Store
	sqliteStore, err := kvstore.OpenSQLite(cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: local cache unavailable: %v\n", err)
		store = kvstore.NewMemStore()
	} else {
		defer sqliteStore.Close()
		store = sqliteStore
	}

	creds := kvstore.NewCell[remote.Credentials](store, "auth/credentials")
	user := kvstore.NewCell[remote.User](store, "auth/user")
	checked := kvstore.NewCell[map[string]bool](store, "packing/checked")

	client := remote.NewClient(remote.Config{
		BaseURL: serverURL,
		Timeout: timeout,
		CredentialSource: func() *remote.Credentials {
			c := creds.Read(remote.Credentials{})
			if c.Username == "" {
				return nil
			}
			return &c
		},
	})

	var observer engine.Observer = engine.NoopObserver{}
	if os.Getenv("MOCHILA_LOG") != "" {
		observer = engine.NewLogObserver(os.Stderr)
	}

	app := &cli.App{
		Engine: engine.New(client, checked, observer),
		Auth:   client,
		Creds:  creds,
		User:   user,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
