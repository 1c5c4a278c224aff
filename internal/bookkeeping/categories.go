package bookkeeping

import (
	"context"
	"fmt"
	"strings"

	"github.com/moajmalnk/faisytkd/internal/api"
	"github.com/moajmalnk/faisytkd/internal/common"
	"github.com/moajmalnk/faisytkd/internal/model"
)

// CategoryInput holds the editable fields of a category.
type CategoryInput struct {
	Name  string
	Kind  model.CategoryKind
	Color string
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: category name is required", common.ErrInvalidInput)
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: category kind %q", common.ErrInvalidInput, in.Kind)
	}
	return nil
}

func (in CategoryInput) category(id string) model.Category {
	color := in.Color
	if color == "" {
		color = model.DefaultCategoryColor
	}
	return model.Category{ID: id, Name: in.Name, Kind: in.Kind, Color: color}
}

func categoryBody(c model.Category) api.CategoryInput {
	return api.CategoryInput{Name: c.Name, Type: string(c.Kind), Color: c.Color}
}

// AddCategory creates a category.
func (b *Book) AddCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}

	cat := in.category(newTempID())

	id, err := Run(ctx, b.ctrl, Op[int64]{
		Key: Key(EntityCategory, ActionAdd),
		Apply: func(s *Snapshot) {
			s.putCategory(cat)
		},
		Call: func(ctx context.Context) (int64, error) {
			return b.remote.CreateCategory(ctx, categoryBody(cat))
		},
		OnSuccess: func(s *Snapshot, id int64) {
			s.rekeyCategory(cat.ID, formatID(id))
		},
		Success: "Category added",
		Failure: "Failed to add category",
	})
	if err != nil {
		return model.Category{}, err
	}

	cat.ID = formatID(id)
	return cat, nil
}

// UpdateCategory replaces a category.
func (b *Book) UpdateCategory(ctx context.Context, id string, in CategoryInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	if _, ok := b.Snapshot().Category(id); !ok {
		return notFound("category", id)
	}

	cat := in.category(id)

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(EntityCategory, ActionUpdate, id),
		Apply: func(s *Snapshot) {
			s.putCategory(cat)
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, b.remote.UpdateCategory(ctx, sid, categoryBody(cat))
		},
		Success: "Category updated",
		Failure: "Failed to update category",
	})
	return err
}

// DeleteCategory removes a category. Income and expense items that used it
// keep their amounts and lose the category reference.
func (b *Book) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := b.Snapshot().Category(id); !ok {
		return notFound("category", id)
	}

	_, err := Run(ctx, b.ctrl, Op[struct{}]{
		Key: Key(EntityCategory, ActionDelete, id),
		Apply: func(s *Snapshot) {
			s.removeCategory(id)
		},
		Call: func(ctx context.Context) (struct{}, error) {
			sid, err := serverID(id)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, b.remote.DeleteCategory(ctx, sid)
		},
		Success: "Category deleted",
		Failure: "Failed to delete category",
	})
	return err
}
