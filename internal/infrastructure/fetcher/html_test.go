package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

const aodFixture = `<html><body>
<div id="aod-pinned-offer">
	<div id="aod-offer-shipsFrom"><span class="a-color-base">Amazon.com</span></div>
	<div id="aod-offer-soldBy"><a href="/seller">Amazon.com</a></div>
	<span class="a-price"><span class="a-offscreen">$23.49</span></span>
</div>
<div id="aod-offer">
	<div id="aod-offer-shipsFrom"><span class="a-color-base">WidgetWorks</span></div>
	<div id="aod-offer-soldBy"><a href="/seller">WidgetWorks Retail</a></div>
	<span class="a-price"><span class="a-offscreen">$19.99</span></span>
	<span data-csa-c-delivery-price="$4.00">FREE delivery</span>
</div>
</body></html>`

func TestHTMLFetcher(t *testing.T) {
	rq := require.New(t)

	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		_, _ = w.Write([]byte(aodFixture))
	}))
	defer srv.Close()

	f := NewHTMLFetcher()

	offers, err := f.Fetch(context.Background(), srv.URL+"/dp/B0TESTASIN/ref=sr_1_1")
	rq.NoError(err)

	rq.Equal("/gp/product/ajax?asin=B0TESTASIN&pc=dp&experienceId=aodAjaxMain", gotPath)
	rq.Equal([]entity.RawOffer{
		{ShipFrom: "Amazon.com", SoldBy: "Amazon.com", Price: "$23.49"},
		{ShipFrom: "WidgetWorks", SoldBy: "WidgetWorks Retail", Price: "$19.99", DeliveryFee: "$4.00"},
	}, offers)
}

func TestHTMLFetcherServerError(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTMLFetcher()

	_, err := f.Fetch(context.Background(), srv.URL+"/dp/B0TESTASIN")
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.FetchFailed))
}

func TestHTMLFetcherBadLink(t *testing.T) {
	rq := require.New(t)

	f := NewHTMLFetcher()

	_, err := f.Fetch(context.Background(), "not a link")
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.InvalidProductLink))
}
