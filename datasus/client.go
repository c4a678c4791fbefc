package datasus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/text/encoding/charmap"

	"github.com/WelCode99/ArticleData/logging"
)

// Client fetches SIH/SUS RD files over HTTP. One scope is one federative
// unit and one year; the source publishes one file per month, named
// RD{UF}{yy}{mm}.csv.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
}

// NewClient creates a fetch client for the given RD mirror base URL.
func NewClient(baseURL string, timeout time.Duration, retryMax int) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = retryMax
	httpClient.HTTPClient.Timeout = timeout
	// Transient failures are reported through the FetchResult; the default
	// retry chatter on stderr is just noise here.
	httpClient.Logger = nil

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
	}
}

// monthFileURL builds the URL of one monthly RD file.
func (c *Client) monthFileURL(uf string, year, month int) string {
	return fmt.Sprintf("%s/RD%s%02d%02d.csv", c.baseURL, uf, year%100, month)
}

// Fetch downloads the 12 monthly files of one (UF, year) scope and
// concatenates them into a single table. A month missing upstream (404) is
// treated as an empty month; any other failure fails the whole scope.
func (c *Client) Fetch(ctx context.Context, uf string, year int) FetchResult {
	var combined *Table

	for month := 1; month <= 12; month++ {
		table, err := c.fetchMonth(ctx, uf, year, month)
		if err != nil {
			return ResultFailed(fmt.Errorf("%s/%d month %02d: %w", uf, year, month, err))
		}
		if table == nil || table.Len() == 0 {
			continue
		}

		if combined == nil {
			combined = table
			continue
		}
		if !combined.SameColumns(table) {
			return ResultFailed(fmt.Errorf("%s/%d month %02d: column set differs from earlier months", uf, year, month))
		}
		combined.Rows = append(combined.Rows, table.Rows...)
	}

	if combined == nil || combined.Len() == 0 {
		return ResultEmpty()
	}
	return ResultRows(combined)
}

// fetchMonth downloads and parses a single monthly file. A nil table with a
// nil error means the month does not exist at the source.
func (c *Client) fetchMonth(ctx context.Context, uf string, year, month int) (*Table, error) {
	url := c.monthFileURL(uf, year, month)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	// As some files are in iso-8859-1 and some in utf8, read the content
	// first and decide how to decode it.
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil, nil
	}

	var reader io.Reader
	if utf8.Valid(bodyBytes) {
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	}

	table, err := ReadTable(utfbom.SkipOnly(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return table, nil
}
