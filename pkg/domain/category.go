package domain

import (
	"errors"
	"strings"
)

var ErrEmptyCategoryName = errors.New("category name is required")

// Category groups transactions. Default categories are shared and read-only.
type Category struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Icon      string          `json:"icon,omitempty"`
	Color     string          `json:"color,omitempty"`
	IsDefault bool            `json:"isDefault,omitempty"`
}

// CategoryInput is the create/update payload.
type CategoryInput struct {
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Icon  string          `json:"icon,omitempty"`
	Color string          `json:"color,omitempty"`
}

// Validate checks the payload before it is sent.
func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyCategoryName
	}
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// CategoryNames returns the names of categories matching t, or all when t is empty.
func CategoryNames(cats []Category, t TransactionType) []string {
	names := make([]string, 0, len(cats))
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		if t != "" && c.Type != "" && c.Type != t {
			continue
		}
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	return names
}
