// Seeds the store with example creator profiles for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/creatorlane/connect/internal/config"
	"github.com/creatorlane/connect/internal/store"
)

type seedProfile struct {
	name   string
	avatar string
	tier   string
	bio    string
}

var creators = []seedProfile{
	{"Ava Stone", "https://cdn.example.com/a/ava.png", "featured", "Digital artist sketching one city a day"},
	{"Ben Okafor", "https://cdn.example.com/a/ben.png", "rising", "Street photography and darkroom experiments"},
	{"Carla Mendes", "https://cdn.example.com/a/carla.png", "featured", "Watercolor tutorials for absolute beginners"},
	{"Dmitri Volkov", "https://cdn.example.com/a/dmitri.png", "", "Synthwave producer, weekly track breakdowns"},
	{"Elena Ruiz", "https://cdn.example.com/a/elena.png", "rising", "Ceramics studio vlogs and glaze recipes"},
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var db store.DataStore
	var err error
	if cfg.DatabaseURL != "" {
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			fmt.Fprintf(os.Stderr, "Migrations failed: %v\n", err)
			os.Exit(1)
		}
		db, err = store.NewPostgresStore(ctx, cfg.DatabaseURL)
	} else {
		db, err = store.NewSQLiteStore(ctx, cfg.SQLitePath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	for _, c := range creators {
		profile, err := db.CreateProfile(ctx, c.name, c.avatar, "creator", c.tier, c.bio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed %s: %v\n", c.name, err)
			os.Exit(1)
		}
		fmt.Printf("Seeded creator %s (%s)\n", profile.Name, profile.ID)
	}
}
