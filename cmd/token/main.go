package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/creatorlane/connect/internal/api/middleware"
)

func main() {
	profileIDStr := flag.String("profile", "", "Profile UUID to mint a session for")
	role := flag.String("role", "member", "Profile role (member or creator)")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if *profileIDStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: token -profile <uuid> [-role member|creator] [-ttl 24h]")
		os.Exit(1)
	}

	profileID, err := uuid.Parse(*profileIDStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid profile ID: %v\n", err)
		os.Exit(1)
	}

	godotenv.Load()
	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		secret = "dev-secret-do-not-use"
	}

	token, err := middleware.SignToken([]byte(secret), profileID, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
