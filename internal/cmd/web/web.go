// Package web parses web service flags and launches the portfolio server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/showcase/internal/content"
	"github.com/louisbranch/showcase/internal/content/fixture"
	"github.com/louisbranch/showcase/internal/content/prismic"
	"github.com/louisbranch/showcase/internal/content/snapshot"
	entrypoint "github.com/louisbranch/showcase/internal/platform/cmd"
	"github.com/louisbranch/showcase/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr       string   `env:"WEB_HTTP_ADDR"        envDefault:"localhost:8080"`
	CMSEndpoint    string   `env:"CMS_ENDPOINT"`
	CMSAccessToken string   `env:"CMS_ACCESS_TOKEN"`
	CMSPageSize    int      `env:"CMS_PAGE_SIZE"        envDefault:"100"`
	FixturePath    string   `env:"WEB_FIXTURE"`
	SnapshotPath   string   `env:"WEB_SNAPSHOT_PATH"`
	Locales        []string `env:"WEB_LOCALES"          envDefault:"en-us" envSeparator:","`
	Analytics      string   `env:"WEB_ANALYTICS"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	locales := strings.Join(cfg.Locales, ",")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.CMSEndpoint, "cms-endpoint", cfg.CMSEndpoint, "Prismic API endpoint")
	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "YAML fixture served instead of the CMS")
	fs.StringVar(&cfg.SnapshotPath, "snapshot-path", cfg.SnapshotPath, "SQLite file holding the last good CMS responses")
	fs.StringVar(&locales, "locales", locales, "Comma separated CMS locales, the first is the default")
	fs.StringVar(&cfg.Analytics, "analytics", cfg.Analytics, "Analytics property id")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Locales = splitLocales(locales)
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	locales, err := content.NewLocales(cfg.Locales)
	if err != nil {
		return fmt.Errorf("init locales: %w", err)
	}
	provider, closeProvider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProvider()

	server, err := web.NewServer(ctx, web.Config{
		HTTPAddr:  cfg.HTTPAddr,
		Provider:  provider,
		Locales:   locales,
		Analytics: cfg.Analytics,
		Logger:    log.Default(),
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	log.Printf("web listening on %s", server.Addr())
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}

// newProvider picks the fixture provider when a fixture path is set and the
// Prismic client otherwise.
func newProvider(ctx context.Context, cfg Config) (content.Provider, func(), error) {
	if path := strings.TrimSpace(cfg.FixturePath); path != "" {
		provider, err := fixture.Load(path, log.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("load fixture: %w", err)
		}
		go func() {
			if err := provider.Watch(ctx); err != nil {
				log.Printf("fixture watch: %v", err)
			}
		}()
		return provider, func() {}, nil
	}

	pcfg := prismic.Config{
		Endpoint:    cfg.CMSEndpoint,
		AccessToken: cfg.CMSAccessToken,
		PageSize:    cfg.CMSPageSize,
		Logger:      log.Default(),
	}
	closeStore := func() {}
	if path := strings.TrimSpace(cfg.SnapshotPath); path != "" {
		store, err := snapshot.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshots: %w", err)
		}
		pcfg.Snapshots = store
		closeStore = func() {
			if err := store.Close(); err != nil {
				log.Printf("close snapshots: %v", err)
			}
		}
	}
	client, err := prismic.New(pcfg)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("init prismic: %w", err)
	}
	return client, closeStore, nil
}

func splitLocales(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
