package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/repository"
)

type WishlistUsecase struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	productUC    *ProductUsecase
}

// DI。商品詳細の組み立てはProductUsecaseに任せる
func NewWishlistUsecase(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	productUC *ProductUsecase,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		productUC:    productUC,
	}
}

type WishlistItemOutput struct {
	ID             int64         `json:"id"`
	Product        int64         `json:"product"`
	ProductDetails ProductOutput `json:"product_details"`
	CreatedAt      time.Time     `json:"created_at"`
}

// 自分のお気に入り一覧（商品詳細付き）
func (u *WishlistUsecase) List(ctx context.Context, userID int64) ([]WishlistItemOutput, error) {
	if userID <= 0 {
		return []WishlistItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []WishlistItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]WishlistItemOutput, 0, len(items))
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			//商品が消えていたらスキップ
			continue
		}
		if err != nil {
			return []WishlistItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		details, err := u.productUC.toOutput(ctx, p)
		if err != nil {
			return []WishlistItemOutput{}, err
		}

		outs = append(outs, WishlistItemOutput{
			ID:             it.ID,
			Product:        it.ProductID,
			ProductDetails: details,
			CreatedAt:      it.CreatedAt,
		})
	}
	return outs, nil
}

// 追加。既にあれば何もしない（成功扱い）
func (u *WishlistUsecase) Add(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.wishlistRepo.GetOrCreate(ctx, userID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	err := u.wishlistRepo.DeleteByUserAndProduct(ctx, userID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
