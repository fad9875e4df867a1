package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// DI
func NewCategoryUsecase(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// product_count付きのカテゴリ
type CategoryOutput struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]CategoryOutput, error) {
	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]CategoryOutput, 0, len(cats))
	for _, c := range cats {
		count, err := u.productRepo.CountByCategoryID(ctx, c.ID)
		if err != nil {
			return []CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toCategoryOutput(c, count))
	}
	return outs, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id int64) (CategoryOutput, error) {
	if id <= 0 {
		return CategoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return CategoryOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	count, err := u.productRepo.CountByCategoryID(ctx, c.ID)
	if err != nil {
		return CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCategoryOutput(c, count), nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (CategoryOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CategoryOutput{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
	})
	if errors.Is(err, repository.ErrConflict) {
		return CategoryOutput{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCategoryOutput(created, 0), nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) (CategoryOutput, error) {
	if id <= 0 {
		return CategoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CategoryOutput{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	err := u.categoryRepo.Update(ctx, model.Category{
		ID:          id,
		Name:        name,
		Description: in.Description,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return CategoryOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if errors.Is(err, repository.ErrConflict) {
		return CategoryOutput{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return CategoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, id)
}

// カテゴリ削除（属する商品ごと消える前提の運用）
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categoryRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toCategoryOutput(c model.Category, count int64) CategoryOutput {
	return CategoryOutput{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: count,
		CreatedAt:    c.CreatedAt,
	}
}
