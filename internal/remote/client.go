// Package remote is the HTTP client for the remote ledger service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Is makes every StatusError match common.ErrRemote.
func (e *StatusError) Is(target error) bool {
	return target == common.ErrRemote
}

// envelope is implemented by every response body carrying an ok flag.
type envelope interface {
	Rejected() (string, bool)
}

// Client talks to the accounts, categories and transactions collections.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	slog.Debug("remote request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", common.ErrRemote, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s %s response: %w", common.ErrRemote, method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s response: %w", common.ErrRemote, method, path, err)
	}
	if env, ok := out.(envelope); ok {
		if msg, rejected := env.Rejected(); rejected {
			if msg == "" {
				msg = "request rejected"
			}
			return fmt.Errorf("%w: %s %s: %s", common.ErrRemote, method, path, msg)
		}
	}
	return nil
}

func itemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var resp api.ListResponse[T]
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func create(ctx context.Context, c *Client, path string, body any) (int64, error) {
	var resp api.CreatedResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func update(ctx context.Context, c *Client, path string, id int64, body any) error {
	var resp api.StatusResponse
	return c.do(ctx, http.MethodPut, itemPath(path, id), body, &resp)
}

func remove(ctx context.Context, c *Client, path string, id int64) error {
	var resp api.StatusResponse
	return c.do(ctx, http.MethodDelete, itemPath(path, id), nil, &resp)
}

// ListAccounts returns every account.
func (c *Client) ListAccounts(ctx context.Context) ([]api.Account, error) {
	return list[api.Account](ctx, c, api.AccountsPath)
}

// CreateAccount creates an account and returns its id.
func (c *Client) CreateAccount(ctx context.Context, in api.AccountInput) (int64, error) {
	return create(ctx, c, api.AccountsPath, in)
}

// UpdateAccount replaces an account.
func (c *Client) UpdateAccount(ctx context.Context, id int64, in api.AccountInput) error {
	return update(ctx, c, api.AccountsPath, id, in)
}

// DeleteAccount removes an account.
func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return remove(ctx, c, api.AccountsPath, id)
}

// ListCategories returns every category.
func (c *Client) ListCategories(ctx context.Context) ([]api.Category, error) {
	return list[api.Category](ctx, c, api.CategoriesPath)
}

// CreateCategory creates a category and returns its id.
func (c *Client) CreateCategory(ctx context.Context, in api.CategoryInput) (int64, error) {
	return create(ctx, c, api.CategoriesPath, in)
}

// UpdateCategory replaces a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, in api.CategoryInput) error {
	return update(ctx, c, api.CategoriesPath, id, in)
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return remove(ctx, c, api.CategoriesPath, id)
}

// ListTransactions returns every transaction of every kind.
func (c *Client) ListTransactions(ctx context.Context) ([]api.Transaction, error) {
	return list[api.Transaction](ctx, c, api.TransactionsPath)
}

// CreateTransaction creates a transaction and returns its id.
func (c *Client) CreateTransaction(ctx context.Context, in api.TransactionInput) (int64, error) {
	return create(ctx, c, api.TransactionsPath, in)
}

// UpdateTransaction replaces a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, in api.TransactionInput) error {
	return update(ctx, c, api.TransactionsPath, id, in)
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return remove(ctx, c, api.TransactionsPath, id)
}

// CompleteTransaction settles a collect or pay transaction and returns the id
// of the income or expense it was converted into.
func (c *Client) CompleteTransaction(ctx context.Context, id int64, in api.CompleteInput) (int64, error) {
	return create(ctx, c, itemPath(api.TransactionsPath, id)+api.CompleteSuffix, in)
}

// Health pings the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, api.HealthPath, nil, nil)
}
