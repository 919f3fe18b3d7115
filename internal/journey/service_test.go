package journey

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/educateagirl/storefront-api/pkg/db/dbtest"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourneyListsByYear(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.New(t)))
	require.NoError(t, err)
	ctx := context.Background()

	for _, in := range []Input{
		{Year: "2021", Title: "First library"},
		{Year: "2015", Title: "Founded"},
		{Year: "2021", Title: "Scholarship fund"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Founded", "First library", "Scholarship fund"}, []string{rows[0].Title, rows[1].Title, rows[2].Title})

	updated, err := svc.Update(ctx, rows[0].ID, Input{Year: "2014", Title: "Founded", Description: "Two classrooms"})
	require.NoError(t, err)
	assert.Equal(t, "2014", updated.Year)

	_, err = svc.Update(ctx, 12345, Input{Year: "2000", Title: "x"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, updated.ID))
	rows, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestInputYearAcceptsNumbers(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"year": 2019, "title": "Expansion"}`), &in))
	assert.Equal(t, "2019", in.Year)
	assert.Equal(t, "Expansion", in.Title)

	require.NoError(t, json.Unmarshal([]byte(`{"year": "2020", "title": "Pandemic", "description": "Remote lessons"}`), &in))
	assert.Equal(t, "2020", in.Year)
	assert.Equal(t, "Remote lessons", in.Description)

	assert.Error(t, json.Unmarshal([]byte(`{"year": true}`), &in))
}
