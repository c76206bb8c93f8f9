// Connect CLI - command line client for the Connect API
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/creatorlane/connect/clients/go/connectapi"
	"github.com/creatorlane/connect/internal/connectview"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("CONNECT_URL")
	token := os.Getenv("CONNECT_TOKEN")

	client := connectapi.NewClient(baseURL, token)
	ctx := context.Background()
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health(ctx)
		exitOnError(err)
		printJSON(resp)

	case "stats":
		resp, err := client.Stats(ctx)
		exitOnError(err)
		printJSON(resp)

	case "register":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: connect register <name> <member|creator>")
			os.Exit(1)
		}
		resp, err := client.Register(ctx, connectapi.RegisterRequest{
			Name: os.Args[2],
			Role: os.Args[3],
		})
		exitOnError(err)
		fmt.Printf("Registered as: %s\n", resp.ID)

	case "who":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: connect who <profile_id>")
			os.Exit(1)
		}
		resp, err := client.GetProfile(ctx, os.Args[2])
		exitOnError(err)
		printJSON(resp)

	case "creators":
		state := pageState(ctx, client)
		state.LoadDirectory(ctx)
		if len(os.Args) > 2 {
			state.SetSearchQuery(os.Args[2])
		}
		for _, c := range state.FilteredCreators() {
			mark := " "
			if c.Followed {
				mark = "*"
			}
			fmt.Printf("%s %s  %s (%d followers)  %s\n", mark, c.ID, c.Name, c.FollowerCount, c.Bio)
		}

	case "network":
		state := pageState(ctx, client)
		state.LoadConnections(ctx)
		for _, c := range state.Connections() {
			fmt.Printf("  %s  %s [%s]\n", c.ProfileID, c.Name, c.Role)
		}

	case "inbox":
		state := pageState(ctx, client)
		state.LoadInbox(ctx)
		for _, m := range state.Inbox() {
			ts := time.UnixMilli(m.SentAt).Format("2006-01-02 15:04:05")
			fmt.Printf("[%s] %s: %s\n", ts, m.SenderName, m.Body)
		}

	case "follow":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: connect follow <creator_id>")
			os.Exit(1)
		}
		resp, err := client.Follow(ctx, os.Args[2])
		exitOnError(err)
		fmt.Printf("Following: %s\n", resp.CreatorID)

	case "unfollow":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: connect unfollow <creator_id>")
			os.Exit(1)
		}
		exitOnError(client.Unfollow(ctx, os.Args[2]))
		fmt.Println("Unfollowed")

	case "dm":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: connect dm <profile_id> <message>")
			os.Exit(1)
		}
		resp, err := client.SendMessage(ctx, os.Args[2], os.Args[3])
		exitOnError(err)
		fmt.Printf("Sent: %s\n", resp.ID)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

// pageState builds the Connect page state for the current session. The
// profile ID comes from CONNECT_PROFILE; the role is resolved from the
// server so restricted accounts behave exactly as in the web page.
func pageState(ctx context.Context, client *connectapi.Client) *connectview.State {
	profileID := os.Getenv("CONNECT_PROFILE")
	if profileID == "" {
		fmt.Fprintln(os.Stderr, "CONNECT_PROFILE is required for page commands")
		os.Exit(1)
	}

	profile, err := client.GetProfile(ctx, profileID)
	exitOnError(err)

	session := connectview.Session{ID: profile.ID, Role: profile.Role}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	state := connectview.New(session, client.Backend(), logger)
	if state.Restricted() {
		fmt.Fprintln(os.Stderr, connectview.AccessRestrictedMessage)
		os.Exit(1)
	}
	return state
}

func usage() {
	fmt.Println(`Connect CLI

Usage: connect <command> [options]

Commands:
  register <name> <role>     Register a profile (member or creator)
  creators [query]           Browse the creator directory
  network                    List your connections
  inbox                      Read your direct messages
  follow <creator_id>        Follow a creator
  unfollow <creator_id>      Unfollow a creator
  dm <profile_id> <message>  Send a direct message
  who <profile_id>           Show a public profile
  stats                      Show platform statistics
  health                     Check server health

Environment:
  CONNECT_URL      Server base URL (default http://localhost:8080)
  CONNECT_TOKEN    Bearer session token
  CONNECT_PROFILE  Your profile ID (page commands)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
