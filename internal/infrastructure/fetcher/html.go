package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0"

const defaultTimeout = 15 * time.Second

// HTMLFetcher fetches the AOD panel over plain HTTP and parses it
// statically. Cheaper than the browser fetcher but easier for the
// marketplace to fence off.
type HTMLFetcher struct {
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
}

func NewHTMLFetcher() *HTMLFetcher {
	return &HTMLFetcher{
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
	}
}

func (f *HTMLFetcher) WithUserAgent(userAgent string) *HTMLFetcher {
	f.userAgent = userAgent
	return f
}

func (f *HTMLFetcher) WithTimeout(timeout time.Duration) *HTMLFetcher {
	f.timeout = timeout
	return f
}

func (f *HTMLFetcher) WithTransport(transport http.RoundTripper) *HTMLFetcher {
	f.transport = transport
	return f
}

func (f *HTMLFetcher) Fetch(ctx context.Context, link string) ([]entity.RawOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aodURL, err := OfferListingURL(link)
	if err != nil {
		return nil, err
	}

	// A collector per fetch: colly refuses to revisit a URL within one
	// collector, and every cycle must refetch.
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.SetRequestTimeout(f.timeout)

	if f.transport != nil {
		c.WithTransport(f.transport)
	}

	var (
		offers   []entity.RawOffer
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = err
			return
		}

		offers = offersFromDocument(doc)
	})

	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(aodURL); err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, fmt.Sprintf("visit %s", aodURL))
	}

	c.Wait()

	if fetchErr != nil {
		return nil, domain.WrapError(fetchErr, errcodes.FetchFailed, fmt.Sprintf("fetch %s", aodURL))
	}

	return offers, nil
}
