package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/moajmalnk/faisytkd/internal/analytics"
	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/bookkeeping"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// Cache lifetimes.
const (
	listTTL    = 60 * time.Second
	summaryTTL = 5 * time.Minute
)

// Handler serves the remote ledger API.
type Handler struct {
	store Store
	cache Cache
	now   func() time.Time
}

// NewHandler creates a handler. A nil cache disables caching.
func NewHandler(store Store, cache Cache) *Handler {
	if cache == nil {
		cache = NoCache{}
	}
	return &Handler{store: store, cache: cache, now: model.Today}
}

// healthCheck handles the health check endpoint
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ledger-service",
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, api.StatusResponse{OK: false, Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, api.StatusResponse{OK: false, Error: err.Error()})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, errors.New("invalid id"))
		return 0, false
	}
	return id, true
}

// serveCached writes the cached body for key, or loads, caches and writes it.
func serveCached[T any](h *Handler, c *gin.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) {
	ctx := c.Request.Context()

	if data, ok := h.cache.Get(ctx, key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
		return
	}

	value, err := load(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		fail(c, err)
		return
	}
	h.cache.Set(ctx, key, data, ttl)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// invalidate drops every cached response. Transaction writes move account
// balances, so any write can stale any read.
func (h *Handler) invalidate(c *gin.Context) {
	h.cache.Invalidate(c.Request.Context(), cacheKeys...)
}

func list[T any](fetch func(context.Context) ([]T, error)) func(context.Context) (api.ListResponse[T], error) {
	return func(ctx context.Context) (api.ListResponse[T], error) {
		items, err := fetch(ctx)
		if err != nil {
			return api.ListResponse[T]{}, err
		}
		return api.ListResponse[T]{OK: true, Items: items}, nil
	}
}

type validator interface {
	Validate() error
}

// bind decodes and validates a request body.
func bind[T validator](c *gin.Context) (T, bool) {
	var in T
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return in, false
	}
	if err := in.Validate(); err != nil {
		badRequest(c, err)
		return in, false
	}
	return in, true
}

func (h *Handler) created(c *gin.Context, id int64, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	h.invalidate(c)
	c.JSON(http.StatusCreated, api.CreatedResponse{OK: true, ID: id})
}

func (h *Handler) done(c *gin.Context, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	h.invalidate(c)
	c.JSON(http.StatusOK, api.StatusResponse{OK: true})
}

// Accounts

func (h *Handler) getAccounts(c *gin.Context) {
	serveCached(h, c, cacheAccounts, listTTL, list(h.store.ListAccounts))
}

func (h *Handler) addAccount(c *gin.Context) {
	in, ok := bind[api.AccountInput](c)
	if !ok {
		return
	}
	id, err := h.store.CreateAccount(c.Request.Context(), in)
	h.created(c, id, err)
}

func (h *Handler) updateAccount(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	in, ok := bind[api.AccountInput](c)
	if !ok {
		return
	}
	h.done(c, h.store.UpdateAccount(c.Request.Context(), id, in))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.done(c, h.store.DeleteAccount(c.Request.Context(), id))
}

// Categories

func (h *Handler) getCategories(c *gin.Context) {
	serveCached(h, c, cacheCategories, listTTL, list(h.store.ListCategories))
}

func (h *Handler) addCategory(c *gin.Context) {
	in, ok := bind[api.CategoryInput](c)
	if !ok {
		return
	}
	id, err := h.store.CreateCategory(c.Request.Context(), in)
	h.created(c, id, err)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	in, ok := bind[api.CategoryInput](c)
	if !ok {
		return
	}
	h.done(c, h.store.UpdateCategory(c.Request.Context(), id, in))
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.done(c, h.store.DeleteCategory(c.Request.Context(), id))
}

// Transactions

func (h *Handler) getTransactions(c *gin.Context) {
	serveCached(h, c, cacheTransactions, listTTL, list(h.store.ListTransactions))
}

func (h *Handler) addTransaction(c *gin.Context) {
	in, ok := bind[api.TransactionInput](c)
	if !ok {
		return
	}
	id, err := h.store.CreateTransaction(c.Request.Context(), in)
	h.created(c, id, err)
}

func (h *Handler) updateTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	in, ok := bind[api.TransactionInput](c)
	if !ok {
		return
	}
	h.done(c, h.store.UpdateTransaction(c.Request.Context(), id, in))
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.done(c, h.store.DeleteTransaction(c.Request.Context(), id))
}

func (h *Handler) completeTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	in, ok := bind[api.CompleteInput](c)
	if !ok {
		return
	}
	newID, err := h.store.CompleteTransaction(c.Request.Context(), id, in)
	h.created(c, newID, err)
}

// getSummary computes the dashboard figures. An optional period query
// narrows income and expense to a trailing window ending today.
func (h *Handler) getSummary(c *gin.Context) {
	period, err := analytics.ParsePeriod(c.Query("period"))
	if err != nil {
		badRequest(c, err)
		return
	}
	serveCached(h, c, summaryKey(period), summaryTTL, func(ctx context.Context) (any, error) {
		var (
			accounts     []api.Account
			categories   []api.Category
			transactions []api.Transaction
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			accounts, err = h.store.ListAccounts(gctx)
			return err
		})
		g.Go(func() (err error) {
			categories, err = h.store.ListCategories(gctx)
			return err
		})
		g.Go(func() (err error) {
			transactions, err = h.store.ListTransactions(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return gin.H{
			"ok":      true,
			"period":  period,
			"summary": bookkeeping.Build(accounts, categories, transactions).AnalyticsWithin(period, h.now()),
		}, nil
	})
}
