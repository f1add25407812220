package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nbaliev/campushub/internal/client/api"
	"github.com/nbaliev/campushub/internal/client/cli"
	"github.com/nbaliev/campushub/internal/client/session/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "adminctl.db", "Path to local session database")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	ctx := context.Background()

	sessions, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			slog.Error("failed to close session database", "error", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)
	c := cli.New(apiClient, sessions, *serverURL)

	var cmdErr error
	switch command {
	case "register":
		cmdErr = c.Register(ctx)
	case "login":
		cmdErr = c.Login(ctx)
	case "logout":
		cmdErr = c.Logout(ctx)
	case "status":
		cmdErr = c.Status(ctx)
	case "students":
		cmdErr = c.Students(ctx, args[1:])
	case "count":
		cmdErr = c.Count(ctx)
	case "export":
		cmdErr = c.Export(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		cli.PrintUsage()
		os.Exit(1)
	}
	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("CampusHub Admin Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
