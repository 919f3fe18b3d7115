package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/educateagirl/storefront-api/internal/seed"
	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/db"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	file := flag.String("file", "", "YAML seed document (defaults to the embedded site content)")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})

	doc, err := loadDocument(*file)
	requireResource(ctx, logg, "seed document", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "migrations", migrate.MaybeRun(ctx, cfg, logg, dbClient))

	res, err := seed.Run(ctx, dbClient, doc, logg)
	requireResource(ctx, logg, "seed", err)

	if res.Skipped {
		fmt.Println("products already present; nothing seeded")
		return
	}
	fmt.Printf("seeded %d products, %d gallery items, %d stories, %d team members, %d journey entries, %d programs, %d settings\n",
		res.Products, res.Gallery, res.Stories, res.Team, res.Journey, res.Programs, res.Settings)
}

func loadDocument(path string) (*seed.Document, error) {
	if path == "" {
		return seed.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(raw)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
