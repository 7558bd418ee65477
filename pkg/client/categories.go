package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/naveenspark/tally/pkg/domain"
)

// Categories defines the category operations.
type Categories interface {
	Defaults(ctx context.Context) ([]domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// categoryClient handles /categories requests.
type categoryClient struct {
	client *Client
}

type categoriesEnvelope struct {
	Categories []domain.Category `json:"categories"`
}

// Defaults returns the shared default categories.
func (c *categoryClient) Defaults(ctx context.Context) ([]domain.Category, error) {
	var env categoriesEnvelope
	if err := c.client.get(ctx, "/categories/default", nil, &env); err != nil {
		return nil, fmt.Errorf("client.DefaultCategories: %w", err)
	}
	return nonNil(env.Categories), nil
}

// List returns the defaults plus the user's own categories.
func (c *categoryClient) List(ctx context.Context) ([]domain.Category, error) {
	var env categoriesEnvelope
	if err := c.client.get(ctx, "/categories", nil, &env); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return nonNil(env.Categories), nil
}

// Create adds a user category.
func (c *categoryClient) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	var raw json.RawMessage
	if err := c.client.post(ctx, "/categories", in, &raw); err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	cat, err := decodeEntity[domain.Category](raw, "category")
	if err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	return cat, nil
}

// Update changes a user category.
func (c *categoryClient) Update(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("client.UpdateCategory: %w", err)
	}
	var raw json.RawMessage
	if err := c.client.put(ctx, "/categories/"+url.PathEscape(id), in, &raw); err != nil {
		return nil, fmt.Errorf("client.UpdateCategory: %w", err)
	}
	cat, err := decodeEntity[domain.Category](raw, "category")
	if err != nil {
		return nil, fmt.Errorf("client.UpdateCategory: %w", err)
	}
	return cat, nil
}

// Delete removes a user category.
func (c *categoryClient) Delete(ctx context.Context, id string) error {
	if err := c.client.delete(ctx, "/categories/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("client.DeleteCategory: %w", err)
	}
	return nil
}

func nonNil(cats []domain.Category) []domain.Category {
	if cats == nil {
		return []domain.Category{}
	}
	return cats
}
