// Package main provides the biocards CLI.
package main

import (
	"context"
	"os"
	"time"

	"github.com/deppmann/biocards/cmd/biocards/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	err = application.Execute(ctx, os.Args[1:])

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = application.Shutdown(shutdownCtx)
	shutdownCancel()

	if err != nil {
		cancel()
		app.ExitOnError(err)
	}
}
