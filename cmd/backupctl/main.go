// backupctl saves and restores player inventories through a running
// commerce-api instance.
//
// Usage:
//
//	backupctl [-api URL] [-collection NAME] [-timeout 10s] save <nick> <file.json | ->
//	backupctl [-api URL] [-collection NAME] [-timeout 10s] load <nick>
//
// save reads a player data document ({id, nick, inventory}) from the file,
// or from stdin when the file is "-". Both commands print the call result as
// JSON and exit non-zero when it did not succeed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/emiliano-diaz/commerce-api/internal/backup"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building logger: %v\n", err)
		os.Exit(exitFail)
	}
	defer logger.Sync() //nolint:errcheck

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, logger))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, logger *zap.Logger) int {
	fs := flag.NewFlagSet("backupctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", envOr("BACKUP_API_URL", "http://localhost:3000"), "base URL of the commerce API")
	collection := fs.String("collection", backup.DefaultCollection, "collection path segment")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(stderr, "usage: backupctl [flags] save <nick> <file.json|-> | load <nick>")
		return exitUsage
	}

	client := backup.NewClient(backup.ClientOptions{
		BaseURL:    *apiURL,
		Collection: *collection,
		Timeout:    *timeout,
		Logger:     logger,
	})
	defer client.Close()

	var result backup.Result
	switch cmd, nick := rest[0], rest[1]; cmd {
	case "save":
		if len(rest) != 3 {
			fmt.Fprintln(stderr, "usage: backupctl [flags] save <nick> <file.json|->")
			return exitUsage
		}
		data, err := readPlayerData(rest[2], stdin)
		if err != nil {
			fmt.Fprintf(stderr, "error reading player data: %v\n", err)
			return exitFail
		}
		result = client.Save(ctx, nick, data)
	case "load":
		result = client.Load(ctx, nick)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		return exitUsage
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "error writing result: %v\n", err)
		return exitFail
	}
	if !result.Success {
		logger.Warn("backup call failed",
			zap.String("command", rest[0]),
			zap.String("nick", rest[1]),
			zap.String("error_code", result.ErrorCode),
		)
		return exitFail
	}
	return exitOK
}

func readPlayerData(path string, stdin io.Reader) (*backup.PlayerData, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var data backup.PlayerData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &data, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
