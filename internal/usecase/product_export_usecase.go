package usecase

import (
	"context"
	"net/http"
	"time"

	repo "app/internal/repository"

	"github.com/tealeg/xlsx"
)

// 管理者向けの商品一覧エクスポート（xlsx）
type ProductExportUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewProductExportUsecase(productRepo repo.ProductRepository, categoryRepo repo.CategoryRepository) *ProductExportUsecase {
	return &ProductExportUsecase{productRepo: productRepo, categoryRepo: categoryRepo}
}

func (u *ProductExportUsecase) BuildXLSX(ctx context.Context) (*xlsx.File, error) {
	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	categoryNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "failed to create sheet")
	}

	headers := []string{
		"ID", "Name", "Description", "Price", "Category",
		"StockQuantity", "ImageURL", "IsAvailable", "CreatedDate", "UpdatedDate",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(categoryNames[p.CategoryID])
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.IsAvailable)
		row.AddCell().SetValue(p.CreatedAt.Format(time.RFC3339))
		row.AddCell().SetValue(p.UpdatedAt.Format(time.RFC3339))
	}

	return file, nil
}
