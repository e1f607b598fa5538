package bookmark

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// maxPages bounds pagination against a provider that never returns an empty page.
const maxPages = 10000

// Client reads the current bookmark snapshot from the storage provider.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(endpoint string, log zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "provider").Logger(),
	}
}

// FetchAll fetches every bookmark, paginating until the provider returns an empty page.
func (c *Client) FetchAll(ctx context.Context) ([]Bookmark, error) {
	var all []Bookmark

	for page := 0; page < maxPages; page++ {
		batch, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)
		c.log.Debug().Int("page", page).Int("count", len(batch)).Int("total", len(all)).Msg("fetched page")
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]Bookmark, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for page %d: %w", page, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page %d: status %d", page, resp.StatusCode)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}

	return snap.Bookmarks, nil
}
