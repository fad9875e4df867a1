package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// DI
func NewReviewUsecase(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type ReviewOutput struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type AddReviewInput struct {
	Rating  int
	Comment string
}

// 商品のレビュー一覧
func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]ReviewOutput, error) {
	if productID <= 0 {
		return []ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	//商品の存在チェック
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []ReviewOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return []ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return []ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ReviewOutput, 0, len(reviews))
	for _, rv := range reviews {
		out := ReviewOutput{
			ID:        rv.ID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt,
		}
		if user, err := u.userRepo.FindByID(ctx, rv.UserID); err == nil {
			out.Username = user.Username
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// レビュー追加。同一ユーザーの多重投稿は制限しない
func (u *ReviewUsecase) Add(ctx context.Context, userID, productID int64, in AddReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReviewOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ReviewOutput{
		ID:        created.ID,
		Rating:    created.Rating,
		Comment:   created.Comment,
		CreatedAt: created.CreatedAt,
	}
	if user, err := u.userRepo.FindByID(ctx, userID); err == nil {
		out.Username = user.Username
	}
	return out, nil
}
