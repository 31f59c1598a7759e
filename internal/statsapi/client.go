// Package statsapi reads aggregated champion statistics from a PostgREST
// (Supabase) endpoint.
package statsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dom/patch-meta/internal/domain"
)

const (
	statsPath   = "/rest/v1/champion_stats_aggregated"
	patchesPath = "/rest/v1/rpc/get_stats_patches"

	pingTimeout  = 5 * time.Second
	maxErrorBody = 512
)

// Row is one aggregated statistics row. Rates are percentages and may be absent.
type Row struct {
	ChampionID   string   `json:"champion_id"`
	PatchVersion string   `json:"patch_version"`
	Region       string   `json:"region"`
	Tier         string   `json:"tier"`
	Role         *string  `json:"role"`
	TotalMatches int      `json:"total_matches"`
	WinRate      *float64 `json:"win_rate"`
	PickRate     *float64 `json:"pick_rate"`
	BanRate      *float64 `json:"ban_rate"`
}

// Filter selects rows. Empty fields are not filtered on, except Role: an
// empty Role selects the all-roles aggregate.
type Filter struct {
	Patch      string
	Region     string
	Tier       string
	Role       string
	ChampionID string
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.ChampionID != "" {
		q.Set("champion_id", "eq."+f.ChampionID)
	}
	if f.Patch != "" {
		q.Set("patch_version", "eq."+f.Patch)
	}
	if f.Region != "" {
		q.Set("region", "eq."+f.Region)
	}
	if f.Tier != "" {
		q.Set("tier", "eq."+f.Tier)
	}
	if f.Role != "" {
		q.Set("role", "eq."+f.Role)
	} else {
		q.Set("role", "is.null")
	}
	q.Set("order", "win_rate.desc")
	return q
}

type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// ChampionStats returns the rows matching f.
func (c *Client) ChampionStats(ctx context.Context, f Filter) ([]Row, error) {
	var rows []Row
	if err := c.do(ctx, http.MethodGet, statsPath+"?"+f.query().Encode(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Patches lists the patch versions the endpoint has statistics for.
func (c *Client) Patches(ctx context.Context) ([]string, error) {
	var patches []string
	if err := c.do(ctx, http.MethodPost, patchesPath, &patches); err != nil {
		return nil, err
	}
	return patches, nil
}

// Ping reports whether the endpoint answers with a 2xx status within five seconds.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	var rows []Row
	return c.do(ctx, http.MethodGet, statsPath+"?limit=1", &rows) == nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	target := c.baseURL + path

	var body io.Reader
	if method == http.MethodPost {
		body = bytes.NewReader([]byte("{}"))
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &domain.NetworkError{URL: target, Err: err}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.NetworkError{URL: target, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}
