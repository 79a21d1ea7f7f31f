// Command helixconf loads a configuration document from its configured
// backend, processes it, and compiles it back out: to a file when -out
// is given, otherwise back into the backend. When a notifier is
// configured, every save publishes a revision event.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/helixlang/helixconf/internal/persist"
	"github.com/helixlang/helixconf/pkg/config"
	"github.com/helixlang/helixconf/pkg/helixconf"
	"github.com/helixlang/helixconf/pkg/lg"
	"github.com/helixlang/helixconf/pkg/notify"
)

const (
	serviceName    = "HELIXCONF"
	publishTimeout = 10 * time.Second
)

func main() {
	settingsPath := flag.String("settings", "helixconf.yaml", "path to the settings file")
	outPath := flag.String("out", "", "write the compiled document to this file instead of the backend")
	debug := flag.Bool("debug", false, "enable debug logging")
	format := flag.String("log-format", "json", "json or console")
	flag.Parse()

	logger := lg.New(&lg.Config{ServiceName: serviceName, Debug: *debug, Format: *format})
	defer logger.Sync()

	if err := run(*settingsPath, *outPath, logger); err != nil {
		logger.Error("helixconf failed", lg.Err(err))
		os.Exit(1)
	}
}

func run(settingsPath, outPath string, logger lg.Logger) error {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	store, err := config.NewStoreFromSettings(settings)
	if err != nil {
		return err
	}

	cfg, err := store.Load()
	if err != nil {
		return err
	}
	logger.Info("loaded configuration",
		lg.String("store", settings.Store),
		lg.Int("keys", cfg.Len()),
	)

	if err := cfg.Process(); err != nil {
		return err
	}

	if outPath != "" {
		bytes, err := cfg.Compile()
		if err != nil {
			return err
		}
		if err := (persist.FileWriter{Overwrite: true}).Write(outPath, bytes); err != nil {
			return err
		}
		logger.Info("wrote compiled configuration", lg.String("path", outPath))
	} else {
		if err := store.Save(cfg); err != nil {
			return err
		}
		logger.Info("saved configuration", lg.String("store", settings.Store))
	}

	if settings.Notify != nil {
		if err := publishRevision(settings, cfg, logger); err != nil {
			return err
		}
	}
	return nil
}

func publishRevision(settings *config.Settings, cfg *helixconf.Config, logger lg.Logger) error {
	publisher := notify.NewPublisher(notify.Config{
		Brokers: settings.Notify.Brokers,
		Topic:   settings.Notify.Topic,
	}, logger)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return publisher.Publish(ctx, notify.NewEvent(settings.Store, cfg.Len()))
}
