package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolverSource_GetOrCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	// First call: no row yet, one insert.
	provider.On("SourceIDByName", context.Background(), "Lagos Sample Market Data").
		Return(int64(0), false, nil).Once()
	provider.On("InsertSource", context.Background(), "Lagos Sample Market Data", "sample", "website").
		Return(int64(5), nil).Once()
	// Second call: the row exists, no further insert.
	provider.On("SourceIDByName", context.Background(), "Lagos Sample Market Data").
		Return(int64(5), true, nil).Once()

	r := NewResolver(provider, zap.NewNop())

	first, err := r.Source(context.Background(), "Lagos Sample Market Data", "sample")
	require.NoError(t, err)
	second, err := r.Source(context.Background(), "Lagos Sample Market Data", "sample")
	require.NoError(t, err)

	require.Equal(t, first, second)
	provider.AssertExpectations(t)
	provider.AssertNumberOfCalls(t, "InsertSource", 1)
}

func TestResolverSource_LookupErrorIsFatal(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("SourceIDByName", context.Background(), "Jiji.ng Marketplace").
		Return(int64(0), false, errors.New("catalog unreachable"))

	r := NewResolver(provider, zap.NewNop())
	_, err := r.Source(context.Background(), "Jiji.ng Marketplace", "https://jiji.ng")
	require.Error(t, err)
}

func TestResolverProduct_States(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("ProductIDByName", context.Background(), "Rice (Local)").
		Return(int64(4), true, nil)
	provider.On("ProductIDByName", context.Background(), "Quinoa").
		Return(int64(0), false, nil)
	provider.On("ProductIDByName", context.Background(), "Yam").
		Return(int64(0), false, errors.New("timeout"))

	r := NewResolver(provider, zap.NewNop())

	found := r.Product(context.Background(), "Rice (Local)")
	require.True(t, found.OK())
	require.Equal(t, int64(4), found.ID)

	missing := r.Product(context.Background(), "Quinoa")
	require.Equal(t, NotFound, missing.State)
	require.False(t, missing.OK())

	// A store error fails open to a miss instead of propagating.
	unavailable := r.Product(context.Background(), "Yam")
	require.Equal(t, Unavailable, unavailable.State)
	require.False(t, unavailable.OK())
}

func TestResolverLocation_Found(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("LocationIDByName", context.Background(), "Bodija Market").
		Return(int64(4), true, nil)

	r := NewResolver(provider, zap.NewNop())
	require.True(t, r.Location(context.Background(), "Bodija Market").OK())
}
