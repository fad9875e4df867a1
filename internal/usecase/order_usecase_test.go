package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// チェックアウト成功。1000×2 + 500×1 = 2500
func TestOrderUsecase_Checkout_Success(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: s})

	s.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	s.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 2},
		{ID: 2, CartID: 5, ProductID: 20, Quantity: 1},
	}, nil)

	s.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Coffee", Price: 1000}, nil)
	s.products.On("FindByID", mock.Anything, int64(20)).Return(model.Product{ID: 20, Name: "Mug", Price: 500}, nil)

	s.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	s.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(20), int64(1)).Return(true, nil)

	s.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 && o.Status == model.OrderStatusPending && o.TotalPrice == 2500
	})).Return(int64(77), nil)

	s.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].ProductNameSnapshot == "Coffee" && items[0].PriceAtPurchase == 1000 &&
			items[1].ProductNameSnapshot == "Mug" && items[1].PriceAtPurchase == 500
	})).Return(nil)

	//同一トランザクション内でカートが空になる
	s.carts.On("Clear", mock.Anything, int64(5)).Return(nil)

	s.orders.On("FindByID", mock.Anything, int64(77)).Return(model.Order{
		ID: 77, UserID: 1, Status: model.OrderStatusPending, TotalPrice: 2500, CreatedAt: time.Now(),
	}, nil)

	out, err := uc.Checkout(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, int64(2500), out.TotalPrice)
	assert.Equal(t, 2, out.TotalItems)

	//明細小計の合計 == 注文合計
	var sum int64
	for _, it := range out.Items {
		sum += it.Subtotal
	}
	assert.Equal(t, out.TotalPrice, sum)

	s.orders.AssertExpectations(t)
	s.orderItems.AssertExpectations(t)
	s.carts.AssertExpectations(t)
	s.inventory.AssertExpectations(t)
}

// 空カートは注文を作る前に拒否
func TestOrderUsecase_Checkout_EmptyCart(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: s})

	s.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	s.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{}, nil)

	_, err := uc.Checkout(ctx, 1)
	assertErrContains(t, err, "cart is empty")

	s.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	s.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_NoCart(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: s})

	s.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.Checkout(ctx, 1)
	assertErrContains(t, err, "cart is empty")
}

// 在庫不足が1件でもあれば注文は作られない
func TestOrderUsecase_Checkout_OutOfStock(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: s})

	s.carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	s.cartItems.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartItem{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 999},
	}, nil)
	s.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Coffee", Price: 1000}, nil)
	s.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(999)).Return(false, nil)

	_, err := uc.Checkout(ctx, 1)
	assertErrContains(t, err, "out of stock")

	s.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	s.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	s.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

// 他人の注文は存在しない扱い
func TestOrderUsecase_GetMyOrder_OtherUser(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: s})

	s.orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{ID: 9, UserID: 2}, nil)

	_, err := uc.GetMyOrder(ctx, 1, 9)
	assertErrContains(t, err, "not found")
}

func TestOrderUsecase_ListMyOrders_NewestFirst(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: s})

	s.orders.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Order{
		{ID: 2, UserID: 1, Status: model.OrderStatusPaid, TotalPrice: 500},
		{ID: 1, UserID: 1, Status: model.OrderStatusPending, TotalPrice: 2500},
	}, nil)
	s.orderItems.On("ListByOrderID", mock.Anything, int64(2)).Return([]model.OrderItem{}, nil)
	s.orderItems.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	outs, err := uc.ListMyOrders(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outs))
	assert.Equal(t, int64(2), outs[0].ID)
}

func TestAdminOrderUsecase_UpdateStatus_Invalid(t *testing.T) {
	s := newTxReposStub()
	uc := usecase.NewAdminOrderUsecase(&txManagerStub{repos: s})

	_, err := uc.UpdateStatus(context.Background(), 1, "SHIPPED")
	assertErrContains(t, err, "invalid status")

	s.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_Success(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewAdminOrderUsecase(&txManagerStub{repos: s})

	s.orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusShipped).Return(nil)
	s.orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusShipped}, nil)
	s.orderItems.On("ListByOrderID", mock.Anything, int64(7)).Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(ctx, 7, "shipped")
	assert.NoError(t, err)
	assert.Equal(t, "shipped", out.Status)

	s.orders.AssertExpectations(t)
	//キャンセル以外では在庫は戻らない
	s.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

// キャンセルへの変更で明細の数量が在庫へ戻る
func TestAdminOrderUsecase_UpdateStatus_CancelRestocksItems(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewAdminOrderUsecase(&txManagerStub{repos: s})

	pid10, pid20 := int64(10), int64(20)

	s.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusPaid}, nil).Once()
	s.orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)
	s.orderItems.On("ListByOrderID", mock.Anything, int64(7)).Return([]model.OrderItem{
		{ID: 1, OrderID: 7, ProductID: &pid10, ProductNameSnapshot: "Coffee", Quantity: 2, PriceAtPurchase: 1000},
		{ID: 2, OrderID: 7, ProductID: nil, ProductNameSnapshot: "Gone", Quantity: 1, PriceAtPurchase: 300},
		{ID: 3, OrderID: 7, ProductID: &pid20, ProductNameSnapshot: "Mug", Quantity: 3, PriceAtPurchase: 500},
	}, nil)

	s.inventory.On("IncreaseStock", mock.Anything, int64(10), int64(2)).Return(nil).Once()
	s.inventory.On("IncreaseStock", mock.Anything, int64(20), int64(3)).Return(nil).Once()

	s.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusCancelled}, nil).Once()

	out, err := uc.UpdateStatus(ctx, 7, "cancelled")
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	s.inventory.AssertExpectations(t)
	//商品が消えた明細の分は戻さない
	s.inventory.AssertNumberOfCalls(t, "IncreaseStock", 2)
}

// キャンセル済みの注文をもう一度キャンセルしても二重に戻らない
func TestAdminOrderUsecase_UpdateStatus_AlreadyCancelled_NoRestock(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewAdminOrderUsecase(&txManagerStub{repos: s})

	pid := int64(10)

	s.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusCancelled}, nil)
	s.orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)
	s.orderItems.On("ListByOrderID", mock.Anything, int64(7)).Return([]model.OrderItem{
		{ID: 1, OrderID: 7, ProductID: &pid, ProductNameSnapshot: "Coffee", Quantity: 2, PriceAtPurchase: 1000},
	}, nil)

	_, err := uc.UpdateStatus(ctx, 7, "cancelled")
	assert.NoError(t, err)

	s.inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

// from/toがそのままリポジトリのフィルタへ渡る
func TestAdminOrderUsecase_ListOrders_DateFilter(t *testing.T) {
	ctx := context.Background()

	s := newTxReposStub()
	uc := usecase.NewAdminOrderUsecase(&txManagerStub{repos: s})

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	s.orders.On("ListAdmin", mock.Anything, mock.MatchedBy(func(f repo.AdminOrderListFilter) bool {
		return f.From != nil && f.From.Equal(from) &&
			f.To != nil && f.To.Equal(to) &&
			f.Page == 1 && f.Limit == 20
	})).Return([]model.Order{}, int64(0), nil)

	_, err := uc.ListOrders(ctx, usecase.AdminOrderListInput{
		Page:  1,
		Limit: 20,
		From:  &from,
		To:    &to,
	})
	assert.NoError(t, err)

	s.orders.AssertExpectations(t)
}
