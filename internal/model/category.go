package model

import (
	"fmt"
	"strings"
)

// CategoryKind says which side of the books a category belongs to.
type CategoryKind string

// Category kinds.
const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// Valid reports whether k is a known category kind.
func (k CategoryKind) Valid() bool {
	return k == CategoryIncome || k == CategoryExpense
}

// ParseCategoryKind converts user input into a CategoryKind.
func ParseCategoryKind(s string) (CategoryKind, error) {
	k := CategoryKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown category kind %q", s)
	}
	return k, nil
}

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#667eea"

// Category represents a transaction category.
type Category struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Kind  CategoryKind `json:"kind"`
	Color string       `json:"color"`
}
