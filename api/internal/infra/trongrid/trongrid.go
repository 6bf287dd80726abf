package trongrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	fetchTimeout = 10 * time.Second
	pageLimit    = 50
)

type Client struct {
	baseUrl string
	apiKey  string
	http    *http.Client
}

func New(baseUrl string, apiKey string) *Client {
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: fetchTimeout},
	}
}

// FetchTransfers returns confirmed TRC20 transfers for the address, newest
// first, at most one page. minTimestamp (ms) bounds the lookback window.
// any transport or HTTP failure comes back as *TransientError
func (c *Client) FetchTransfers(ctx context.Context, address string, minTimestamp int64) ([]Transfer, error) {
	if address == "" {
		return nil, fmt.Errorf("trongrid: empty address")
	}
	if minTimestamp < 0 {
		minTimestamp = 0
	}

	url := fmt.Sprintf("%s/accounts/%s/transactions/trc20", c.baseUrl, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("only_confirmed", "true")
	q.Set("limit", strconv.Itoa(pageLimit))
	q.Set("order_by", "block_timestamp,desc")
	q.Set("min_timestamp", strconv.FormatInt(minTimestamp, 10))
	req.URL.RawQuery = q.Encode()

	if c.apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{Op: "get trc20 transactions", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransientError{Op: "get trc20 transactions", Err: fmt.Errorf("invalid status code: %d", resp.StatusCode)}
	}

	var parsed transfersResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &TransientError{Op: "decode trc20 transactions", Err: err}
	}

	return parsed.Data, nil
}
