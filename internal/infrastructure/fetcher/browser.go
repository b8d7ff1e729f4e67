package fetcher

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

const systemChromium = "/usr/bin/chromium-browser"

// BrowserFetcher renders the AOD panel in headless Chromium. Survives the
// scripted storefront where the plain HTTP fetcher gets an empty shell.
type BrowserFetcher struct {
	browser *rod.Browser
	timeout time.Duration
}

func NewBrowserFetcher(timeout time.Duration) (*BrowserFetcher, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	// Prefer the system Chromium when containerized.
	if _, err := os.Stat(systemChromium); err == nil {
		l = l.Bin(systemChromium)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "launch headless browser")
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "connect to headless browser")
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &BrowserFetcher{
		browser: browser,
		timeout: timeout,
	}, nil
}

func (f *BrowserFetcher) Close() error {
	return f.browser.Close()
}

func (f *BrowserFetcher) Fetch(ctx context.Context, link string) ([]entity.RawOffer, error) {
	aodURL, err := OfferListingURL(link)
	if err != nil {
		return nil, err
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{URL: aodURL})
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, fmt.Sprintf("open %s", aodURL))
	}
	defer page.Close() //nolint:errcheck

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, fmt.Sprintf("load %s", aodURL))
	}

	html, err := page.HTML()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, fmt.Sprintf("read %s", aodURL))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FetchFailed, fmt.Sprintf("parse %s", aodURL))
	}

	return offersFromDocument(doc), nil
}
