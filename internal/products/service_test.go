package products

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/educateagirl/storefront-api/pkg/db/dbtest"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestService(t *testing.T, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo: NewRepository(dbtest.New(t)),
		Now:  func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateAppliesDefaultsAndGeneratesID(t *testing.T) {
	now := time.UnixMilli(1717243200123)
	svc := newTestService(t, now)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{
		Name:    "Beaded Necklace",
		Price:   types.MoneyFromFloat(25),
		Details: datatypes.JSON(`["handmade","glass beads"]`),
		Story:   datatypes.JSON(`{"maker":"Amina","village":"Kisumu"}`),
		Images:  datatypes.JSON(`["https://cdn.example.com/a.jpg"]`),
	})
	require.NoError(t, err)

	assert.Equal(t, "1717243200123", created.ID)
	assert.Equal(t, DefaultRating, created.Rating)
	assert.Equal(t, DefaultReviews, created.Reviews)
	assert.Equal(t, DefaultStock, created.Stock)
	assert.Nil(t, created.OfferPrice)
	assert.Equal(t, "25.00", created.Price.String())
	assert.JSONEq(t, `{"maker":"Amina","village":"Kisumu"}`, string(created.Story))

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
	assert.JSONEq(t, `["handmade","glass beads"]`, string(fetched.Details))
}

func TestCreateKeepsCallerIDAndRejectsDuplicates(t *testing.T) {
	svc := newTestService(t, time.Now())
	ctx := context.Background()

	rating := 4.5
	offer := types.MoneyFromFloat(19.99)
	p, err := svc.Create(ctx, Input{ID: "basket-01", Name: "Basket", Rating: &rating, OfferPrice: &offer})
	require.NoError(t, err)
	assert.Equal(t, "basket-01", p.ID)
	assert.Equal(t, 4.5, p.Rating)
	require.NotNil(t, p.OfferPrice)
	assert.Equal(t, "19.99", p.OfferPrice.String())

	_, err = svc.Create(ctx, Input{ID: "basket-01", Name: "Basket again"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestOfferPriceAcceptsBothSpellings(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mat","offer_price":"7.5"}`), &in))
	p := in.toProduct("x")
	require.NotNil(t, p.OfferPrice)
	assert.Equal(t, "7.50", p.OfferPrice.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Mat","offerPrice":8,"offer_price":9}`), &in))
	p = in.toProduct("x")
	assert.Equal(t, "8.00", p.OfferPrice.String())
}

func TestListOrdersByNameThenID(t *testing.T) {
	svc := newTestService(t, time.Now())
	ctx := context.Background()

	for _, in := range []Input{
		{ID: "3", Name: "Scarf"},
		{ID: "2", Name: "Bag"},
		{ID: "1", Name: "Scarf"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "1", "3"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestUpdateReplacesFieldsWithDefaults(t *testing.T) {
	svc := newTestService(t, time.Now())
	ctx := context.Background()

	stock := 12
	_, err := svc.Create(ctx, Input{ID: "p1", Name: "Shawl", Stock: &stock, Category: "textiles"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "p1", Input{Name: "Shawl (blue)", Price: types.MoneyFromFloat(30)})
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
	assert.Equal(t, "Shawl (blue)", updated.Name)
	assert.Equal(t, DefaultStock, updated.Stock)
	assert.Equal(t, "", updated.Category)
	assert.Equal(t, "30.00", updated.Price.String())

	_, err = svc.Update(ctx, "missing", Input{Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestGetMissingAndDeleteIsIdempotent(t *testing.T) {
	svc := newTestService(t, time.Now())
	ctx := context.Background()

	_, err := svc.Get(ctx, "nope")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, Input{ID: "gone", Name: "Bracelet"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "gone"))
	require.NoError(t, svc.Delete(ctx, "gone"))

	_, err = svc.Get(ctx, "gone")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
