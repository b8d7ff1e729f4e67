package fetcher

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"offerwatch/internal/domain/entity"
	"offerwatch/internal/domain/service/tracker"
)

// CachedFetcher deduplicates fetches for products sharing a link: within
// the TTL the second product reuses the first one's offers. Failures are
// never cached.
type CachedFetcher struct {
	next  tracker.OfferFetcher
	cache *cache.Cache
}

func NewCachedFetcher(next tracker.OfferFetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (f *CachedFetcher) Fetch(ctx context.Context, link string) ([]entity.RawOffer, error) {
	if cached, ok := f.cache.Get(link); ok {
		return cached.([]entity.RawOffer), nil
	}

	offers, err := f.next.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	f.cache.SetDefault(link, offers)

	return offers, nil
}
