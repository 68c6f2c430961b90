// Package resthttp implements the catalog contract over the catalog
// service HTTP API. Failures are surfaced once per attempt; retrying is
// left to the caller, who re-prompts the user instead.
package resthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bazarbot/core/logger"
	"bazarbot/internal/catalog"
)

const defaultTimeout = 10 * time.Second

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Options configures the REST catalog client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// New returns a catalog client for the given API endpoint.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ catalog.Client = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("catalog: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "catalog", "request.fail",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("catalog: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug(ctx, "catalog", "request.done",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("http_code", resp.StatusCode),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return catalog.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("catalog: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("catalog: decode response: %w", err)
		}
	}
	return nil
}

// GetUser fetches an account by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*catalog.User, error) {
	var u catalog.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, u catalog.User) error {
	return c.do(ctx, http.MethodPost, "/users", u, nil)
}

// UpdateUser replaces profile fields of an existing account.
func (c *Client) UpdateUser(ctx context.Context, u catalog.User) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", u.ID), u, nil)
}

// CreateProduct publishes a listing and returns its id.
func (c *Client) CreateProduct(ctx context.Context, in catalog.ProductInput) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", in, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// UpdateProduct replaces the fields of an existing listing.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in catalog.ProductInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, nil)
}

// DeleteProduct removes a listing.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// ListCategories returns all product categories.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var cats []catalog.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ProductsByCategory returns listings within one category.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	var products []catalog.Product
	path := fmt.Sprintf("/products?category_id=%d", categoryID)
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// UserProducts returns listings owned by the given user.
func (c *Client) UserProducts(ctx context.Context, userID int64) ([]catalog.Product, error) {
	var products []catalog.Product
	path := fmt.Sprintf("/products?owner_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// UploadMedia attaches one media file to a product via multipart upload.
func (c *Client) UploadMedia(ctx context.Context, productID int64, r io.Reader, filename, contentType string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("catalog: multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("catalog: multipart copy: %w", err)
	}
	if err := mw.WriteField("content_type", contentType); err != nil {
		return fmt.Errorf("catalog: multipart field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("catalog: multipart close: %w", err)
	}

	path := fmt.Sprintf("/products/%d/media", productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog: upload media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("catalog: upload media: status %d", resp.StatusCode)
	}
	return nil
}

// ProductMedia returns URLs of the media attached to a product.
func (c *Client) ProductMedia(ctx context.Context, productID int64) ([]string, error) {
	var urls []string
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/media", productID), nil, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// DeleteMedia removes all media attached to a product.
func (c *Client) DeleteMedia(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d/media", productID), nil, nil)
}

// AddFavorite marks a product as liked by the user.
func (c *Client) AddFavorite(ctx context.Context, userID, productID int64) error {
	path := fmt.Sprintf("/users/%d/favorites/%d", userID, productID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// RemoveFavorite unmarks a previously liked product.
func (c *Client) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	path := fmt.Sprintf("/users/%d/favorites/%d", userID, productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Favorites returns liked products ordered by creation time.
func (c *Client) Favorites(ctx context.Context, userID int64, order catalog.SortOrder) ([]catalog.Product, error) {
	var products []catalog.Product
	path := fmt.Sprintf("/users/%d/favorites?order=%s", userID, url.QueryEscape(string(order)))
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SellerInfo resolves the owner contact of a product.
func (c *Client) SellerInfo(ctx context.Context, productID int64) (*catalog.Seller, error) {
	var s catalog.Seller
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/seller", productID), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
