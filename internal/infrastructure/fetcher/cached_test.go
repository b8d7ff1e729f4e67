package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"offerwatch/internal/domain/entity"
)

type countingFetcher struct {
	calls  int
	offers []entity.RawOffer
	err    error
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) ([]entity.RawOffer, error) {
	f.calls++
	return f.offers, f.err
}

func TestCachedFetcherReusesOffers(t *testing.T) {
	rq := require.New(t)

	next := &countingFetcher{offers: []entity.RawOffer{{SoldBy: "A", Price: "$10.00"}}}
	f := NewCachedFetcher(next, time.Minute)

	ctx := context.Background()

	first, err := f.Fetch(ctx, "https://www.amazon.com/dp/B0TESTASIN")
	rq.NoError(err)

	second, err := f.Fetch(ctx, "https://www.amazon.com/dp/B0TESTASIN")
	rq.NoError(err)

	rq.Equal(first, second)
	rq.Equal(1, next.calls)

	_, err = f.Fetch(ctx, "https://www.amazon.com/dp/B0OTHERASIN")
	rq.NoError(err)
	rq.Equal(2, next.calls, "distinct links must fetch separately")
}

func TestCachedFetcherSkipsFailures(t *testing.T) {
	rq := require.New(t)

	next := &countingFetcher{err: errors.New("storefront down")}
	f := NewCachedFetcher(next, time.Minute)

	ctx := context.Background()

	_, err := f.Fetch(ctx, "https://www.amazon.com/dp/B0TESTASIN")
	rq.Error(err)

	_, err = f.Fetch(ctx, "https://www.amazon.com/dp/B0TESTASIN")
	rq.Error(err)
	rq.Equal(2, next.calls, "failures must not be cached")
}
