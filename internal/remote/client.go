package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/restaurants/internal/model"
)

// DefaultURL is where `restaurants serve` listens by default.
const DefaultURL = "http://127.0.0.1:1337"

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, strings.TrimSpace(e.Body))
}

// Client is the HTTP data layer. It satisfies directory.DataSource.
type Client struct {
	Base  string
	HTTP  *http.Client
	Token func() string
}

// New returns a client for base with the given request timeout.
func New(base string, timeout time.Duration, token func() string) *Client {
	if base == "" {
		base = DefaultURL
	}
	return &Client{
		Base:  strings.TrimRight(base, "/"),
		HTTP:  &http.Client{Timeout: timeout},
		Token: token,
	}
}

func (c *Client) Neighborhoods(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/neighborhoods", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Cuisines(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/cuisines", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error) {
	q := url.Values{}
	if !model.IsAll(cuisine) {
		q.Set("cuisine_type", cuisine)
	}
	if !model.IsAll(neighborhood) {
		q.Set("neighborhood", neighborhood)
	}
	var out []model.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurants", q, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateFavoriteStatus(ctx context.Context, id int, favorite bool) error {
	q := url.Values{"is_favorite": {strconv.FormatBool(favorite)}}
	return c.do(ctx, http.MethodPut, "/restaurants/"+strconv.Itoa(id), q, uuid.NewString(), nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, requestID string, out any) error {
	u := c.Base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.Token != nil {
		if tok := c.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		serr := &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(b)}
		if resp.StatusCode == http.StatusNotFound {
			return errors.Join(serr, model.ErrNotFound)
		}
		return serr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
