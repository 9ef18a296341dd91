package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gradpath/internal/model"
	"gradpath/internal/repository"
)

func TestSeedFillsStores(t *testing.T) {
	ctx := context.Background()
	scholarships := repository.NewStaticScholarshipRepo(nil)
	costs := repository.NewStaticCostRepo(nil)

	require.NoError(t, seed(ctx, scholarships, costs, zap.NewNop()))

	all, err := scholarships.Search(ctx, model.ScholarshipCriteria{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	stanford, err := costs.FindByName(ctx, "stanford")
	require.NoError(t, err)
	require.NotNil(t, stanford)
	assert.Equal(t, "Stanford University", stanford.CatalogName)

	// Seeding twice replaces rather than duplicates
	require.NoError(t, seed(ctx, scholarships, costs, zap.NewNop()))
	all, err = scholarships.Search(ctx, model.ScholarshipCriteria{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
