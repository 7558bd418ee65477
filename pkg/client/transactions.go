package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/naveenspark/tally/pkg/domain"
)

// Transactions defines the transaction operations.
type Transactions interface {
	Create(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	Update(ctx context.Context, id string, in domain.TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	MonthlySummary(ctx context.Context, year int, month time.Month) (*domain.MonthlySummary, error)
	YearlySummary(ctx context.Context, year int) (*domain.YearlySummary, error)
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

// transactionClient handles /transactions requests.
type transactionClient struct {
	client *Client
}

type transactionsEnvelope struct {
	Transactions []domain.Transaction `json:"transactions"`
}

func transactionPath(id string) string {
	return "/transactions/" + url.PathEscape(id)
}

// Create records a new transaction.
func (c *transactionClient) Create(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}
	var raw json.RawMessage
	r := Request{Method: http.MethodPost, Path: "/transactions", Query: c.client.scoped(nil), Body: in}
	if err := c.client.doRequest(ctx, r, &raw); err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}
	tx, err := decodeEntity[domain.Transaction](raw, "transaction")
	if err != nil {
		return nil, fmt.Errorf("client.CreateTransaction: %w", err)
	}
	return tx, nil
}

// List returns transactions matching f, newest first as the server orders them.
func (c *transactionClient) List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("client.ListTransactions: %w", err)
	}
	var env transactionsEnvelope
	if err := c.client.get(ctx, "/transactions", c.client.scoped(f.Values()), &env); err != nil {
		return nil, fmt.Errorf("client.ListTransactions: %w", err)
	}
	if env.Transactions == nil {
		return []domain.Transaction{}, nil
	}
	return env.Transactions, nil
}

// Get fetches a single transaction by ID.
func (c *transactionClient) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var raw json.RawMessage
	if err := c.client.get(ctx, transactionPath(id), c.client.scoped(nil), &raw); err != nil {
		return nil, fmt.Errorf("client.GetTransaction: %w", err)
	}
	tx, err := decodeEntity[domain.Transaction](raw, "transaction")
	if err != nil {
		return nil, fmt.Errorf("client.GetTransaction: %w", err)
	}
	return tx, nil
}

// Update replaces a transaction.
func (c *transactionClient) Update(ctx context.Context, id string, in domain.TransactionInput) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.UpdateTransaction: %w", err)
	}
	var raw json.RawMessage
	r := Request{Method: http.MethodPut, Path: transactionPath(id), Query: c.client.scoped(nil), Body: in}
	if err := c.client.doRequest(ctx, r, &raw); err != nil {
		return nil, fmt.Errorf("client.UpdateTransaction: %w", err)
	}
	tx, err := decodeEntity[domain.Transaction](raw, "transaction")
	if err != nil {
		return nil, fmt.Errorf("client.UpdateTransaction: %w", err)
	}
	return tx, nil
}

// Delete removes a transaction.
func (c *transactionClient) Delete(ctx context.Context, id string) error {
	r := Request{Method: http.MethodDelete, Path: transactionPath(id), Query: c.client.scoped(nil)}
	if err := c.client.doRequest(ctx, r, nil); err != nil {
		return fmt.Errorf("client.DeleteTransaction: %w", err)
	}
	return nil
}

// MonthlySummary returns totals and per-category expense for one month.
func (c *transactionClient) MonthlySummary(ctx context.Context, year int, month time.Month) (*domain.MonthlySummary, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("month", strconv.Itoa(int(month)))

	var s domain.MonthlySummary
	if err := c.client.get(ctx, "/transactions/summary/monthly", c.client.scoped(params), &s); err != nil {
		return nil, fmt.Errorf("client.MonthlySummary: %w", err)
	}
	return &s, nil
}

// YearlySummary returns totals and per-month figures for one year.
func (c *transactionClient) YearlySummary(ctx context.Context, year int) (*domain.YearlySummary, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))

	var s domain.YearlySummary
	if err := c.client.get(ctx, "/transactions/summary/yearly", c.client.scoped(params), &s); err != nil {
		return nil, fmt.Errorf("client.YearlySummary: %w", err)
	}
	return &s, nil
}

// Dashboard returns the dashboard cards, breakdown and recent transactions.
func (c *transactionClient) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var s domain.DashboardStats
	if err := c.client.get(ctx, "/transactions/stats/dashboard", c.client.scoped(nil), &s); err != nil {
		return nil, fmt.Errorf("client.Dashboard: %w", err)
	}
	return &s, nil
}
