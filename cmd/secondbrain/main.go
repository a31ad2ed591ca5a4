package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/secondbrain/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/secondbrain/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	baseURL := flag.String("base-url", "", "API base URL, overrides config and environment")
	timeout := flag.String("timeout", "", "request timeout such as 30s; 0 disables it")
	question := flag.String("ask", "", "ask one question, print the answer and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		BaseURL:    *baseURL,
		Timeout:    *timeout,
	}

	askSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "ask" {
			askSet = true
		}
	})
	if askSet {
		return app.Ask(ctx, opts, *question, os.Stdout, os.Stderr)
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "secondbrain: %v\n", err)
		return 1
	}
	return 0
}
