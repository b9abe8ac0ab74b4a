package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/postboard/config.toml)")
	envPath := flag.String("env", "", "dotenv file to load (optional, defaults to ./.env when present)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	startPath := flag.String("open", "", "path to open at startup, e.g. /login (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		EnvPath:    *envPath,
		PrefsPath:  *prefsPath,
		StartPath:  *startPath,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "postboard: %v\n", err)
		return 1
	}
	return 0
}
