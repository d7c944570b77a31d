package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/imprint/internal/config"
	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/settings"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// baseDir resolves the data directory: $IMPRINT_HOME or ~/.imprint.
func baseDir() (string, error) {
	if dir := os.Getenv("IMPRINT_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".imprint"), nil
}

func main() {
	dir, err := baseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.Init(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	store := settings.NewStore(dir)

	app := newCLIApp(database, cfg, store, dir)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
