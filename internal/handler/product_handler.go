package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/products のHTTP。読み取りは公開、変更は要認証
type ProductHandler struct {
	uc       *usecase.ProductUsecase
	reviewUC *usecase.ReviewUsecase
	pageSize int
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, reviewUC *usecase.ReviewUsecase, pageSize int) *ProductHandler {
	return &ProductHandler{uc: uc, reviewUC: reviewUC, pageSize: pageSize}
}

type ProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	Category      int64  `json:"category"`
	StockQuantity int64  `json:"stock_quantity"`
	ImageURL      string `json:"image_url"`
	IsAvailable   bool   `json:"is_available"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//静的パスはパラメータより先に定義する
	e.GET("/api/products/search", h.search)
	e.GET("/api/products/by_category", h.byCategory)
	e.GET("/api/products/available", h.available)

	e.GET("/api/products", h.list)
	e.GET("/api/products/:id", h.detail)
	e.GET("/api/products/:id/reviews", h.listReviews)

	auth := middleware.AuthJWT(cfg)
	e.POST("/api/products", h.create, auth)
	e.PUT("/api/products/:id", h.update, auth)
	e.DELETE("/api/products/:id", h.delete, auth)
	e.POST("/api/products/:id/reviews", h.addReview, auth)
}

func (h *ProductHandler) list(c echo.Context) error {
	page, limit, err := parsePaging(c, h.pageSize)
	if err != nil {
		return writeError(c, err)
	}

	in := usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
	}

	var bad string
	in.MinPrice, bad = parseOptInt64(c, "min_price", bad)
	in.MaxPrice, bad = parseOptInt64(c, "max_price", bad)
	in.InStock, bad = parseOptBool(c, "in_stock", bad)
	in.IsAvailable, bad = parseOptBool(c, "is_available", bad)
	if bad != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + bad})
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), userID, toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), id, toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) search(c echo.Context) error {
	page, limit, err := parsePaging(c, h.pageSize)
	if err != nil {
		return writeError(c, err)
	}

	var bad string
	var minPrice, maxPrice *int64
	minPrice, bad = parseOptInt64(c, "min_price", bad)
	maxPrice, bad = parseOptInt64(c, "max_price", bad)
	if bad != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + bad})
	}

	out, err := h.uc.Search(c.Request().Context(), page, limit,
		c.QueryParam("q"), c.QueryParam("category"), minPrice, maxPrice)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) byCategory(c echo.Context) error {
	page, limit, err := parsePaging(c, h.pageSize)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ByCategory(c.Request().Context(), page, limit, c.QueryParam("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) available(c echo.Context) error {
	page, limit, err := parsePaging(c, h.pageSize)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Available(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listReviews(c echo.Context) error {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.reviewUC.ListByProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) addReview(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseInt64Param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AddReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.reviewUC.Add(c.Request().Context(), userID, id, usecase.AddReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func toProductInput(req ProductRequest) usecase.ProductCreateUpdateInput {
	return usecase.ProductCreateUpdateInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		IsAvailable:   req.IsAvailable,
	}
}

// 省略可能なint64クエリ。badには最初に壊れていたパラメータ名が入る
func parseOptInt64(c echo.Context, name string, bad string) (*int64, string) {
	v := c.QueryParam(name)
	if v == "" || bad != "" {
		return nil, bad
	}
	x, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, name
	}
	return &x, ""
}

func parseOptBool(c echo.Context, name string, bad string) (*bool, string) {
	v := c.QueryParam(name)
	if v == "" || bad != "" {
		return nil, bad
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, name
	}
	return &b, ""
}
