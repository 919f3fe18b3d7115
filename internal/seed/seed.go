// Package seed loads the initial site content into an empty database.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/educateagirl/storefront-api/internal/gallery"
	"github.com/educateagirl/storefront-api/internal/journey"
	"github.com/educateagirl/storefront-api/internal/products"
	"github.com/educateagirl/storefront-api/internal/programs"
	"github.com/educateagirl/storefront-api/internal/settings"
	"github.com/educateagirl/storefront-api/internal/stories"
	"github.com/educateagirl/storefront-api/internal/team"
	"github.com/educateagirl/storefront-api/pkg/db"
	"github.com/educateagirl/storefront-api/pkg/logger"
	"github.com/educateagirl/storefront-api/pkg/types"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

//go:embed data.yaml
var defaultDocument []byte

// Document mirrors data.yaml.
type Document struct {
	Products []productDoc    `yaml:"products"`
	Gallery  []gallery.Input `yaml:"gallery"`
	Stories  []storyDoc      `yaml:"stories"`
	Team     []team.Input    `yaml:"team"`
	Journey  []journeyDoc    `yaml:"journey"`
	Programs []programDoc    `yaml:"programs"`
	Settings map[string]any  `yaml:"settings"`
}

type productDoc struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Price       types.Money  `yaml:"price"`
	OfferPrice  *types.Money `yaml:"offer_price"`
	Category    string       `yaml:"category"`
	Description string       `yaml:"description"`
	Material    string       `yaml:"material"`
	Dimensions  string       `yaml:"dimensions"`
	Origin      string       `yaml:"origin"`
	Impact      string       `yaml:"impact"`
	Details     any          `yaml:"details"`
	Story       any          `yaml:"story"`
	Images      any          `yaml:"images"`
	Stock       int          `yaml:"stock"`
}

type storyDoc struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Image    string `yaml:"image"`
	Quote    string `yaml:"quote"`
	Featured bool   `yaml:"featured"`
}

type journeyDoc struct {
	Year        string `yaml:"year"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type programDoc struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Features    []string `yaml:"features"`
}

// Result counts inserted rows per table. Skipped is set when the database already had products.
type Result struct {
	Skipped  bool
	Products int
	Gallery  int
	Stories  int
	Team     int
	Journey  int
	Programs int
	Settings int
}

// Parse decodes a seed document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed document: %w", err)
	}
	return &doc, nil
}

// Default returns the embedded seed document.
func Default() (*Document, error) {
	return Parse(defaultDocument)
}

// Run seeds doc when the products table is empty. Everything is written in one
// transaction, so a failed seed leaves the database untouched.
func Run(ctx context.Context, client *db.Client, doc *Document, logg *logger.Logger) (Result, error) {
	if logg == nil {
		logg = logger.Nop()
	}

	count, err := products.NewRepository(client).Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		logg.Info(logg.WithField(ctx, "products", count), "seed.skipped")
		return Result{Skipped: true}, nil
	}

	var res Result
	err = client.WithTx(ctx, func(tx *db.Client) error {
		res = Result{}
		return insertAll(ctx, tx, doc, &res)
	})
	if err != nil {
		logg.Error(ctx, "seed.failed", err)
		return Result{}, err
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"products": res.Products,
		"gallery":  res.Gallery,
		"stories":  res.Stories,
		"team":     res.Team,
		"journey":  res.Journey,
		"programs": res.Programs,
		"settings": res.Settings,
	}), "seed.completed")
	return res, nil
}

// insertAll stops at the first failed insert. Postgres aborts the transaction on
// any statement error, so later inserts could only report that.
func insertAll(ctx context.Context, tx *db.Client, doc *Document, res *Result) error {
	productSvc, err := products.NewService(products.ServiceParams{Repo: products.NewRepository(tx)})
	if err != nil {
		return err
	}
	for _, p := range doc.Products {
		in, err := p.input()
		if err == nil {
			_, err = productSvc.Create(ctx, in)
		}
		if err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
		res.Products++
	}

	galleryRepo := gallery.NewRepository(tx)
	for _, item := range doc.Gallery {
		if _, err := galleryRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("gallery %q: %w", item.URL, err)
		}
		res.Gallery++
	}

	storyRepo := stories.NewRepository(tx)
	for _, s := range doc.Stories {
		in := stories.Input{Name: s.Name, Role: s.Role, Image: s.Image, Quote: s.Quote, Featured: s.Featured}
		if _, err := storyRepo.Create(ctx, in); err != nil {
			return fmt.Errorf("story %q: %w", s.Name, err)
		}
		res.Stories++
	}

	teamRepo := team.NewRepository(tx)
	for _, m := range doc.Team {
		if _, err := teamRepo.Create(ctx, m); err != nil {
			return fmt.Errorf("team member %q: %w", m.Name, err)
		}
		res.Team++
	}

	journeyRepo := journey.NewRepository(tx)
	for _, j := range doc.Journey {
		in := journey.Input{Year: j.Year, Title: j.Title, Description: j.Description}
		if _, err := journeyRepo.Create(ctx, in); err != nil {
			return fmt.Errorf("journey %q: %w", j.Title, err)
		}
		res.Journey++
	}

	programRepo := programs.NewRepository(tx)
	for _, p := range doc.Programs {
		var features datatypes.JSON
		var err error
		if len(p.Features) > 0 {
			features, err = toJSON(p.Features)
		}
		if err == nil {
			_, err = programRepo.Create(ctx, programs.Input{Title: p.Title, Description: p.Description, Image: p.Image, Features: features})
		}
		if err != nil {
			return fmt.Errorf("program %q: %w", p.Title, err)
		}
		res.Programs++
	}

	settingsRepo := settings.NewRepository(tx)
	keys := make([]string, 0, len(doc.Settings))
	for key := range doc.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, err := toJSON(doc.Settings[key])
		if err == nil {
			_, err = settingsRepo.Upsert(ctx, key, value)
		}
		if err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
		res.Settings++
	}

	return nil
}

func (p productDoc) input() (products.Input, error) {
	in := products.Input{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		OfferPrice:  p.OfferPrice,
		Category:    p.Category,
		Description: p.Description,
		Material:    p.Material,
		Dimensions:  p.Dimensions,
		Origin:      p.Origin,
		Impact:      p.Impact,
		Stock:       &p.Stock,
	}
	var err error
	if in.Details, err = toJSON(p.Details); err != nil {
		return in, err
	}
	if in.Story, err = toJSON(p.Story); err != nil {
		return in, err
	}
	if in.Images, err = toJSON(p.Images); err != nil {
		return in, err
	}
	return in, nil
}

// toJSON encodes a decoded YAML value. A nil value stays NULL.
func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
