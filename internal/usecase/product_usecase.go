package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 商品一覧・詳細・CRUDと派生系（search / by_category / available）
type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	userRepo     repo.UserRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	userRepo repo.UserRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// category_name / created_by_username / in_stock を含む読み取り用DTO
type ProductOutput struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             int64     `json:"price"`
	Category          int64     `json:"category"`
	CategoryName      string    `json:"category_name"`
	StockQuantity     int64     `json:"stock_quantity"`
	ImageURL          string    `json:"image_url"`
	CreatedDate       time.Time `json:"created_date"`
	UpdatedDate       time.Time `json:"updated_date"`
	CreatedBy         *int64    `json:"created_by"`
	CreatedByUsername string    `json:"created_by_username"`
	IsAvailable       bool      `json:"is_available"`
	InStock           bool      `json:"in_stock"`
}

type PagedProductsOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ListProductsInput struct {
	Page  int
	Limit int

	Name        string
	Category    string
	Search      string
	MinPrice    *int64
	MaxPrice    *int64
	InStock     *bool
	IsAvailable *bool
	Ordering    string
}

type ProductCreateUpdateInput struct {
	Name          string
	Description   string
	Price         int64
	Category      int64
	StockQuantity int64
	ImageURL      string
	IsAvailable   bool
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (PagedProductsOutput, error) {
	if in.Page < 1 {
		return PagedProductsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return PagedProductsOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	products, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:        in.Page,
		Limit:       in.Limit,
		Name:        in.Name,
		Category:    in.Category,
		Search:      in.Search,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		InStock:     in.InStock,
		IsAvailable: in.IsAvailable,
		Ordering:    in.Ordering,
	})
	if err != nil {
		return PagedProductsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.toOutputs(ctx, products)
	if err != nil {
		return PagedProductsOutput{}, err
	}

	return PagedProductsOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toOutput(ctx, p)
}

// 作成。作成者を必ず記録する
func (u *ProductUsecase) Create(ctx context.Context, userID int64, in ProductCreateUpdateInput) (ProductOutput, error) {
	if userID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	//カテゴリの存在チェック
	if _, err := u.categoryRepo.FindByID(ctx, in.Category); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    in.Category,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
		CreatedBy:     &userID,
		IsAvailable:   in.IsAvailable,
	})
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.toOutput(ctx, created)
}

func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductCreateUpdateInput) (ProductOutput, error) {
	if id <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	if _, err := u.categoryRepo.FindByID(ctx, in.Category); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		CategoryID:    in.Category,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
		IsAvailable:   in.IsAvailable,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, id)
}

func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.productRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// /products/search 相当。q + category + 価格帯
func (u *ProductUsecase) Search(ctx context.Context, page, limit int, q, category string, minPrice, maxPrice *int64) (PagedProductsOutput, error) {
	return u.List(ctx, ListProductsInput{
		Page:     page,
		Limit:    limit,
		Search:   q,
		Category: category,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
}

// /products/by_category 相当。nameは必須
func (u *ProductUsecase) ByCategory(ctx context.Context, page, limit int, categoryName string) (PagedProductsOutput, error) {
	if strings.TrimSpace(categoryName) == "" {
		return PagedProductsOutput{}, NewHTTPError(http.StatusBadRequest, "category name is required")
	}

	return u.List(ctx, ListProductsInput{
		Page:     page,
		Limit:    limit,
		Category: categoryName,
	})
}

// /products/available 相当。公開中かつ在庫あり
func (u *ProductUsecase) Available(ctx context.Context, page, limit int) (PagedProductsOutput, error) {
	available := true
	inStock := true

	return u.List(ctx, ListProductsInput{
		Page:        page,
		Limit:       limit,
		IsAvailable: &available,
		InStock:     &inStock,
	})
}

func validateProductInput(in ProductCreateUpdateInput) error {
	if len(strings.TrimSpace(in.Name)) < 3 {
		return NewHTTPError(http.StatusBadRequest, "product name must be at least 3 characters long")
	}
	if in.Price <= 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be greater than 0")
	}
	if in.StockQuantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock quantity cannot be negative")
	}
	if in.Category <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	return nil
}

func (u *ProductUsecase) toOutputs(ctx context.Context, products []model.Product) ([]ProductOutput, error) {
	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		out, err := u.toOutput(ctx, p)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func (u *ProductUsecase) toOutput(ctx context.Context, p model.Product) (ProductOutput, error) {
	out := ProductOutput{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.CategoryID,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		CreatedDate:   p.CreatedAt,
		UpdatedDate:   p.UpdatedAt,
		CreatedBy:     p.CreatedBy,
		IsAvailable:   p.IsAvailable,
		InStock:       p.InStock(),
	}

	if c, err := u.categoryRepo.FindByID(ctx, p.CategoryID); err == nil {
		out.CategoryName = c.Name
	} else if !errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if p.CreatedBy != nil {
		if creator, err := u.userRepo.FindByID(ctx, *p.CreatedBy); err == nil {
			out.CreatedByUsername = creator.Username
		}
	}

	return out, nil
}
