package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 検索/絞り込み/ソート/ページング付きの商品一覧。
// カテゴリ名での絞り込みはJOINで行う。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// name部分一致
	if strings.TrimSpace(q.Name) != "" {
		tx = tx.Where("products.name ILIKE ?", "%"+strings.TrimSpace(q.Name)+"%")
	}

	// カテゴリ名の完全一致（大文字小文字無視）
	if strings.TrimSpace(q.Category) != "" {
		tx = tx.Joins("join categories on categories.id = products.category_id").
			Where("categories.name ILIKE ?", strings.TrimSpace(q.Category))
	}

	// name/description/カテゴリ名の横断検索
	if strings.TrimSpace(q.Search) != "" {
		like := "%" + strings.TrimSpace(q.Search) + "%"
		tx = tx.Where(
			"products.name ILIKE ? OR products.description ILIKE ? OR products.category_id IN (?)",
			like, like,
			r.db.Model(&model.Category{}).Select("id").Where("name ILIKE ?", like),
		)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("products.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("products.price <= ?", *q.MaxPrice)
	}

	// in_stock=true → 在庫>0 / false → 在庫==0
	if q.InStock != nil {
		if *q.InStock {
			tx = tx.Where("products.stock_quantity > 0")
		} else {
			tx = tx.Where("products.stock_quantity = 0")
		}
	}

	if q.IsAvailable != nil {
		tx = tx.Where("products.is_available = ?", *q.IsAvailable)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	tx = applyOrdering(tx, q.Ordering)

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

// "-price"のような接頭辞付きの並び替えをSQLに変換する
func applyOrdering(tx *gorm.DB, ordering string) *gorm.DB {
	desc := false
	field := strings.TrimSpace(ordering)
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}

	var col string
	switch field {
	case "price":
		col = "products.price"
	case "name":
		col = "products.name"
	case "stock_quantity":
		col = "products.stock_quantity"
	case "created_date":
		col = "products.created_at"
	default:
		//デフォルトは新着順
		return tx.Order("products.created_at desc").Order("products.id desc")
	}

	dir := "asc"
	if desc {
		dir = "desc"
	}
	return tx.Order(col + " " + dir).Order("products.id " + dir)
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"name":           p.Name,
		"description":    p.Description,
		"price":          p.Price,
		"category_id":    p.CategoryID,
		"stock_quantity": p.StockQuantity,
		"image_url":      p.ImageURL,
		"is_available":   p.IsAvailable,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除。注文明細はproduct_idをNULLにして残す
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OrderItem{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}

		//カートとお気に入りからも消す
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Wishlist{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *ProductGormRepository) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}
