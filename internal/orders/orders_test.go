package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/educateagirl/storefront-api/pkg/db/dbtest"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(dbtest.New(t)))
	require.NoError(t, err)
	return svc
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"sku":"A","qty":2}],"total":40,"customerInfo":{"name":"X"}}`), &in))

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.JSONEq(t, `[{"sku":"A","qty":2}]`, string(created.Items))
	assert.JSONEq(t, `{"name":"X"}`, string(created.CustomerInfo))
	assert.Equal(t, "40.00", created.Total.String())
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.JSONEq(t, string(created.Items), string(fetched.Items))
	assert.JSONEq(t, string(created.CustomerInfo), string(fetched.CustomerInfo))
	assert.True(t, created.Total.Equal(fetched.Total.Decimal))

	body, err := json.Marshal(fetched)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, float64(40), decoded["total"])
	assert.Equal(t, map[string]any{"name": "X"}, decoded["customer_info"])
}

func TestCreateAcceptsSnakeCaseCustomerInfo(t *testing.T) {
	svc := newTestService(t)

	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"items":[],"total":"12.50","customer_info":{"email":"a@b.c"}}`), &in))

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(created.CustomerInfo))
	assert.Equal(t, "12.50", created.Total.String())
}

func TestCreateRequiresItems(t *testing.T) {
	svc := newTestService(t)

	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"items":null,"total":5}`), &in))
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestGetUnknownOrder(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
