// Command typedql generates typed query client packages from SDL schemas.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/syssam/typedql/compiler/load"
)

var log = logrus.New()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "typedql",
		Short:         "Typed query client generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(generateCmd())
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		configPath string
		schemaPath string
		target     string
		pkg        string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Parse an SDL schema and write the generated client package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(configPath, schemaPath, target, pkg)
			if err != nil {
				return err
			}
			if !watch {
				return run(cmd.Context(), cfg)
			}
			// A broken schema must not stop a watch session.
			if err := run(cmd.Context(), cfg); err != nil {
				log.Error(err)
			}
			return watchLoop(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default "+load.DefaultConfigFile+")")
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "SDL schema file (bypasses the config file)")
	cmd.Flags().StringVarP(&target, "out", "o", "", "output directory for the generated package")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "generated package name (default: base name of the output directory)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate whenever the schema file changes")
	return cmd
}

// resolveConfig merges the config file with flag overrides. Passing
// --schema skips the config file entirely.
func resolveConfig(configPath, schemaPath, target, pkg string) (*load.Config, error) {
	if schemaPath != "" {
		return &load.Config{Schema: schemaPath, Target: target, Package: pkg}, nil
	}
	if configPath == "" {
		configPath = load.DefaultConfigFile
	}
	cfg, err := load.FromFile(configPath)
	if err != nil {
		return nil, err
	}
	if target != "" {
		cfg.Target = target
	}
	if pkg != "" {
		cfg.Package = pkg
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *load.Config) error {
	start := time.Now()
	if err := load.Generate(ctx, cfg); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"schema": cfg.Schema,
		"target": cfg.Target,
		"took":   time.Since(start).Round(time.Millisecond),
	}).Info("client generated")
	return nil
}

// watchLoop regenerates on every change of the schema file until the
// context is canceled. The parent directory is watched rather than the
// file itself because editors replace files on save.
func watchLoop(ctx context.Context, cfg *load.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("typedql: watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(cfg.Schema)); err != nil {
		return fmt.Errorf("typedql: watch %s: %w", cfg.Schema, err)
	}
	log.WithField("schema", cfg.Schema).Info("watching for schema changes")
	schema := filepath.Clean(cfg.Schema)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != schema || !ev.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if err := run(ctx, cfg); err != nil {
				log.Error(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}
