package routes

import (
	"time"

	"github.com/educateagirl/storefront-api/internal/gallery"
	"github.com/educateagirl/storefront-api/internal/journey"
	"github.com/educateagirl/storefront-api/internal/messages"
	"github.com/educateagirl/storefront-api/internal/orders"
	"github.com/educateagirl/storefront-api/internal/products"
	"github.com/educateagirl/storefront-api/internal/programs"
	"github.com/educateagirl/storefront-api/internal/reviews"
	"github.com/educateagirl/storefront-api/internal/settings"
	"github.com/educateagirl/storefront-api/internal/stories"
	"github.com/educateagirl/storefront-api/internal/team"
	"github.com/educateagirl/storefront-api/internal/wishlist"
	"github.com/educateagirl/storefront-api/pkg/db"
)

// Services groups every resource service mounted by NewRouter.
type Services struct {
	Products products.Service
	Gallery  gallery.Service
	Stories  stories.Service
	Team     team.Service
	Journey  journey.Service
	Programs programs.Service
	Settings settings.Service
	Messages messages.Service
	Reviews  reviews.Service
	Orders   orders.Service
	Wishlist wishlist.Service
}

// NewServices builds every service over one shared querier. A nil now uses time.Now.
func NewServices(q db.Querier, now func() time.Time) (Services, error) {
	if now == nil {
		now = time.Now
	}

	var (
		svc Services
		err error
	)
	if svc.Products, err = products.NewService(products.ServiceParams{Repo: products.NewRepository(q), Now: now}); err != nil {
		return Services{}, err
	}
	if svc.Gallery, err = gallery.NewService(gallery.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Stories, err = stories.NewService(stories.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Team, err = team.NewService(team.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Journey, err = journey.NewService(journey.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Programs, err = programs.NewService(programs.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Settings, err = settings.NewService(settings.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Messages, err = messages.NewService(messages.NewRepository(q), now); err != nil {
		return Services{}, err
	}
	if svc.Reviews, err = reviews.NewService(reviews.ServiceParams{Repo: reviews.NewRepository(q), Now: now}); err != nil {
		return Services{}, err
	}
	if svc.Orders, err = orders.NewService(orders.NewRepository(q)); err != nil {
		return Services{}, err
	}
	if svc.Wishlist, err = wishlist.NewService(wishlist.NewRepository(q)); err != nil {
		return Services{}, err
	}
	return svc, nil
}
