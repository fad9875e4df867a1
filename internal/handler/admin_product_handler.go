package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin/products のHTTP（ADMINのみ）
type AdminProductHandler struct {
	exportUC *usecase.ProductExportUsecase
}

// DI
func NewAdminProductHandler(exportUC *usecase.ProductExportUsecase) *AdminProductHandler {
	return &AdminProductHandler{exportUC: exportUC}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/export", h.export)
}

// 商品一覧をxlsxでダウンロードさせる
func (h *AdminProductHandler) export(c echo.Context) error {
	file, err := h.exportUC.BuildXLSX(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.WriteHeader(http.StatusOK)

	if err := file.Write(res); err != nil {
		c.Logger().Error(err)
		return err
	}
	return nil
}
