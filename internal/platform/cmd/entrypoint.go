// Package cmd holds the startup plumbing shared by showcase commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/louisbranch/showcase/internal/platform/config"
	"github.com/louisbranch/showcase/internal/platform/otel"
)

// telemetryFlush bounds the span flush after a command returns.
const telemetryFlush = 5 * time.Second

// Service names a showcase command. It becomes the otel service name and
// the log prefix.
type Service string

const (
	ServiceWeb        Service = "web"
	ServiceStoryboard Service = "storyboard"
)

// LogPrefix is the bracketed prefix used for the command's standard logger.
func (s Service) LogPrefix() string {
	return "[" + strings.ToUpper(string(s)) + "] "
}

// SignalContext returns a context canceled on interrupt or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags over the env defaults already in place.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs the tracer provider for service, runs fn and
// flushes spans once it returns.
func RunWithTelemetry(ctx context.Context, service Service, fn func(context.Context) error) error {
	name := strings.TrimSpace(string(service))
	switch {
	case name == "":
		return errors.New("service name is required")
	case fn == nil:
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, "showcase-"+name)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlush)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s: flush telemetry: %v", name, err)
		}
	}()
	return fn(ctx)
}
