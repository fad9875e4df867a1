package handler

import (
	"net/http"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin/orders のHTTP（ADMINのみ）
type AdminOrderHandler struct {
	uc       *usecase.AdminOrderUsecase
	pageSize int
}

// DI
func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, pageSize int) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, pageSize: pageSize}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/admin/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.PATCH("/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, limit, err := parsePaging(c, h.pageSize)
	if err != nil {
		return writeError(c, err)
	}

	in := usecase.AdminOrderListInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}

	var bad string
	in.UserID, bad = parseOptInt64(c, "user", bad)
	in.From, bad = parseOptTime(c, "from", bad)
	in.To, bad = parseOptTime(c, "to", bad)
	if bad != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + bad})
	}

	out, err := h.uc.ListOrders(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, err := parseInt64Param(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), orderID, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 省略可能な日時クエリ。RFC3339か日付（2006-01-02）を受ける
func parseOptTime(c echo.Context, name string, bad string) (*time.Time, string) {
	v := c.QueryParam(name)
	if v == "" || bad != "" {
		return nil, bad
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, ""
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, name
	}
	//日付のみのtoはその日を含める
	if name == "to" {
		t = t.Add(24 * time.Hour)
	}
	return &t, ""
}
