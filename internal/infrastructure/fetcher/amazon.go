// Package fetcher holds the fetch/extract collaborators that turn a
// product link into the raw seller offers listed on its all-offers (AOD)
// panel. Two interchangeable implementations exist, one plain-HTTP and one
// driving a headless browser; both read the same DOM nodes.
package fetcher

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

// AOD panel nodes. The delivery fee lives in a data attribute, not in the
// visible text.
const (
	offerSelector       = "div#aod-offer, div#aod-pinned-offer"
	shipFromSelector    = "div#aod-offer-shipsFrom span.a-color-base"
	soldBySelector      = "div#aod-offer-soldBy a"
	priceSelector       = "span.a-price span.a-offscreen"
	deliveryFeeSelector = "span[data-csa-c-delivery-price]"
	deliveryFeeAttr     = "data-csa-c-delivery-price"
)

var asinPattern = regexp.MustCompile(`/dp/([^/?#]+)`)

// OfferListingURL derives the AOD ajax endpoint for a product link,
// keeping the link's marketplace host so non-.com storefronts work.
func OfferListingURL(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.NewError(errcodes.InvalidProductLink,
			fmt.Sprintf("product link %q is not an absolute URL", link))
	}

	m := asinPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return "", domain.NewError(errcodes.InvalidProductLink,
			fmt.Sprintf("product link %q has no /dp/<asin> segment", link))
	}

	return fmt.Sprintf("%s://%s/gp/product/ajax?asin=%s&pc=dp&experienceId=aodAjaxMain",
		u.Scheme, u.Host, m[1]), nil
}

// offersFromDocument extracts one RawOffer per AOD offer block, in
// document order. The pinned offer, when present, comes first.
func offersFromDocument(doc *goquery.Document) []entity.RawOffer {
	var offers []entity.RawOffer

	doc.Find(offerSelector).Each(func(_ int, s *goquery.Selection) {
		offers = append(offers, offerFromSelection(s))
	})

	return offers
}

func offerFromSelection(s *goquery.Selection) entity.RawOffer {
	fee, _ := s.Find(deliveryFeeSelector).First().Attr(deliveryFeeAttr)

	return entity.RawOffer{
		ShipFrom:    strings.TrimSpace(s.Find(shipFromSelector).First().Text()),
		SoldBy:      strings.TrimSpace(s.Find(soldBySelector).First().Text()),
		Price:       strings.TrimSpace(s.Find(priceSelector).First().Text()),
		DeliveryFee: fee,
	}
}
