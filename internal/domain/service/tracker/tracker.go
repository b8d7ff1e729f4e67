package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/contextx"
	"offerwatch/pkg/errcodes"
	"offerwatch/pkg/logx"
)

const (
	defaultPlatformPrefix = "Amazon"
	timestampLayout       = "2006-01-02 15:04"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// OfferFetcher is the external fetch/extract collaborator: given a product
// link it returns the raw seller offers currently listed, possibly none.
type OfferFetcher interface {
	Fetch(ctx context.Context, link string) ([]entity.RawOffer, error)
}

// Tracker is the offer-selection and state-update engine. It is stateless
// across products; one instance serves any number of concurrent tasks.
type Tracker struct {
	fetcher        OfferFetcher
	policy         Policy
	platformPrefix string
	clock          func() time.Time
}

func NewTracker(fetcher OfferFetcher) *Tracker {
	return &Tracker{
		fetcher:        fetcher,
		policy:         PolicyCheapest,
		platformPrefix: defaultPlatformPrefix,
		clock:          time.Now,
	}
}

func (t *Tracker) WithPolicy(policy Policy) *Tracker {
	t.policy = policy
	return t
}

func (t *Tracker) WithPlatformPrefix(prefix string) *Tracker {
	t.platformPrefix = prefix
	return t
}

// WithClock overrides timestamp generation, the only impure part of the
// engine.
func (t *Tracker) WithClock(clock func() time.Time) *Tracker {
	t.clock = clock
	return t
}

// Normalize turns a raw listing into an exact-integer offer. An offer
// whose price has no digits normalizes to a zero total and is later
// excluded from selection: a missing price is a non-offer, not the
// cheapest one.
func (t *Tracker) Normalize(raw entity.RawOffer) entity.Offer {
	total := int64(0)
	if price, ok := ParseAmount(raw.Price); ok {
		fee, _ := ParseAmount(raw.DeliveryFee)
		total = price + fee
	}

	return entity.Offer{
		ShipFrom:          raw.ShipFrom,
		SoldBy:            raw.SoldBy,
		TotalPrice:        total,
		PlatformFulfilled: t.platformFulfilled(raw.ShipFrom, raw.SoldBy),
	}
}

// Both names must carry the platform prefix; "AmazonFresh" counts,
// "amazon" does not.
func (t *Tracker) platformFulfilled(shipFrom, soldBy string) bool {
	return strings.HasPrefix(shipFrom, t.platformPrefix) &&
		strings.HasPrefix(soldBy, t.platformPrefix)
}

// Select picks the winning offer under the active policy, or nil when no
// offer qualifies. A platform-fulfilled offer preempts either policy the
// moment it is seen.
func (t *Tracker) Select(product entity.Product, offers []entity.Offer) (*entity.Offer, error) {
	if t.policy == PolicyThreshold && product.ExpectedPrice <= 0 {
		return nil, domain.NewError(errcodes.ConfigurationError,
			fmt.Sprintf("product %q has no usable expected_price for the threshold policy", product.Name))
	}

	var best *entity.Offer

	for i := range offers {
		offer := &offers[i]

		if offer.TotalPrice <= 0 {
			continue
		}

		if offer.PlatformFulfilled {
			return offer, nil
		}

		switch t.policy {
		case PolicyCheapest:
			if best == nil || offer.TotalPrice < best.TotalPrice {
				best = offer
			}
		case PolicyThreshold:
			if offer.TotalPrice <= product.ExpectedPrice {
				return offer, nil
			}
		}
	}

	return best, nil
}

// Apply decides whether the winner changes the stored record. It returns
// the record to persist and, when something changed, the notification to
// deliver. A frozen record is inert no matter what won.
func (t *Tracker) Apply(product entity.Product, winner *entity.Offer) (entity.Product, *entity.Notification) {
	if product.Stopped() || winner == nil {
		return product, nil
	}

	// A platform-fulfilled winner re-notifies even when the seller pair
	// is unchanged; re-asserted first-party fulfillment is actionable.
	if product.MatchesSeller(winner.ShipFrom, winner.SoldBy) && !winner.PlatformFulfilled {
		return product, nil
	}

	product.SetWinner(winner.ShipFrom, winner.SoldBy, winner.TotalPrice)

	event := &entity.Notification{
		Title: product.Name,
		Body: fmt.Sprintf("%s: shipped by %s from %s with actual price %d",
			t.clock().Format(timestampLayout), winner.ShipFrom, winner.SoldBy, winner.TotalPrice),
	}

	return product, event
}

// CheckProduct runs one full fetch-normalize-select-apply cycle for a
// single product. The returned error is per-product and never fatal for
// the run: the caller logs it and keeps the record unchanged.
func (t *Tracker) CheckProduct(ctx context.Context, product entity.Product) (entity.Product, *entity.Notification, error) {
	if product.Stopped() {
		logger(ctx).Debug("product frozen, skipping fetch", slog.String(logx.FieldProduct, product.Name))
		return product, nil, nil
	}

	raws, err := t.fetcher.Fetch(ctx, product.Link)
	if err != nil {
		return product, nil, domain.WrapError(err, errcodes.FetchFailed,
			fmt.Sprintf("fetch offers for %q", product.Name))
	}

	offers := lo.Map(raws, func(raw entity.RawOffer, _ int) entity.Offer {
		return t.Normalize(raw)
	})

	winner, err := t.Select(product, offers)
	if err != nil {
		return product, nil, err
	}

	updated, event := t.Apply(product, winner)

	return updated, event, nil
}
