// Command migrate applies, inspects, and scaffolds the goose migrations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/db"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/migrate"
)

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", "", "goose migrations directory (empty uses the embedded set for EAG_DB_DRIVER)")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()

	var err error
	switch opts.cmd {
	case "create", "validate":
		err = runOffline(opts)
	default:
		err = runOnline(opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		os.Exit(1)
	}
}

// runOffline handles the commands that only touch the migrations tree.
func runOffline(opts options) error {
	root := opts.dir
	if root == "" {
		root = migrate.DefaultDir
	}

	if opts.cmd == "create" {
		if opts.name == "" {
			return errors.New("missing -name")
		}
		paths, err := migrate.CreateSQLMigration(root, opts.name, time.Now())
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println("created migration:", p)
		}
		return nil
	}

	for _, driver := range []string{config.DBDriverPostgres, config.DBDriverSQLite} {
		if err := migrate.ValidateDir(filepath.Join(root, migrate.DialectDir(driver))); err != nil {
			return fmt.Errorf("%s migrations: %w", driver, err)
		}
	}
	fmt.Println("migration validation passed")
	return nil
}

func runOnline(opts options) (err error) {
	if opts.cmd == "version" && opts.version == "" {
		return errors.New("missing -version")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    opts.cmd,
		"dir":    opts.dir,
		"driver": cfg.DB.Driver,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { err = multierr.Append(err, client.Close()) }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	switch opts.cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, cfg.DB.Driver, opts.dir, opts.cmd)
	case "version":
		err = migrate.MigrateToVersion(ctx, sqlDB, cfg.DB.Driver, opts.dir, opts.version)
	default:
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate.done")
	return nil
}
