// Package scraper fetches public League of Legends pages: patch-notes articles,
// the patch-notes tag index and the Data Dragon champion catalog.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"golang.org/x/text/language"
)

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8"

	// maxErrorBody bounds how much of a failed response is kept in a NetworkError.
	maxErrorBody = 512
)

type Options struct {
	// SiteBaseURL is the leagueoflegends.com origin, without trailing slash.
	SiteBaseURL string
	// DataDragonBaseURL is the Data Dragon origin, without trailing slash.
	DataDragonBaseURL string
	Locale            language.Tag
	Timeout           time.Duration
}

// Client performs the HTTP requests of the scraper. It is safe for concurrent use.
type Client struct {
	http           *http.Client
	siteBaseURL    string
	ddragonBaseURL string
	locale         language.Tag
	acceptLanguage string
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:           &http.Client{Timeout: timeout},
		siteBaseURL:    strings.TrimRight(opts.SiteBaseURL, "/"),
		ddragonBaseURL: strings.TrimRight(opts.DataDragonBaseURL, "/"),
		locale:         opts.Locale,
		acceptLanguage: acceptLanguage(opts.Locale),
	}
}

// FetchPage GETs url and returns the body. Transport failures and non-2xx
// statuses are reported as *domain.NetworkError.
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", c.acceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.NetworkError{URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}

// sitePath is the locale segment of leagueoflegends.com URLs, e.g. "ru-ru".
func sitePath(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	return strings.ToLower(base.String() + "-" + region.String())
}

// dataDragonLocale is the Data Dragon spelling of a locale, e.g. "ru_RU".
func dataDragonLocale(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	return base.String() + "_" + region.String()
}

// acceptLanguage prefers the configured locale and falls back to English.
func acceptLanguage(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	if base.String() == "en" {
		return fmt.Sprintf("en-%s,en;q=0.9", region)
	}
	return fmt.Sprintf("%s-%s,%s;q=0.9,en-US;q=0.8,en;q=0.7", base, region, base)
}
