// Package main records storyboard frames of a running portfolio site.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	storyboardcmd "github.com/louisbranch/showcase/internal/cmd/storyboard"
	entrypoint "github.com/louisbranch/showcase/internal/platform/cmd"
	"github.com/louisbranch/showcase/internal/platform/config"
)

func main() {
	cfg, err := storyboardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.ServiceStoryboard.LogPrefix())
	ctx, stop := entrypoint.SignalContext(context.Background())
	defer stop()
	if err := storyboardcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to record: %v", err)
	}
}
