package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/wibowo/storefront/cart/pkg/port"
	"github.com/wibowo/storefront/cart/pkg/request"
	inErrors "github.com/wibowo/storefront/internal/errors"
	"github.com/wibowo/storefront/internal/repository"
)

var (
	userAlice = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	userBob   = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")

	productBeans   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	productFilters = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	productGrinder = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	productMug     = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

func seedProducts() string {
	return filepath.Join("seed", "products.seed.sql")
}

func TestFindCartByUserIdCreatesEmptyCart(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	cart, err := env.service.FindCartByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Equal(t, userAlice, cart.UserID)
	assert.Empty(t, cart.CartItems)

	again, err := env.service.FindCartByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddCartItemMergesQuantities(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 2},
	)
	require.NoError(t, err)

	cart, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 3},
	)
	require.NoError(t, err)

	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, productBeans, cart.CartItems[0].ProductID)
	assert.Equal(t, int32(5), cart.CartItems[0].Quantity)
}

func TestAddCartItemRejectsInvalidQuantity(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 0},
	)
	assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)

	_, err = env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: -1},
	)
	assert.ErrorIs(t, err, inErrors.ErrInvalidQuantity)
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: uuid.New(), Quantity: 1},
	)
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestUpdateCartItemReplacesQuantity(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 2},
	)
	require.NoError(t, err)

	cart, err := env.service.UpdateCartItem(
		c,
		userAlice,
		request.UpdateCartItem{ProductId: productBeans, Quantity: 7},
	)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, int32(7), cart.CartItems[0].Quantity)
}

func TestUpdateCartItemZeroQuantityRemoves(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 2},
	)
	require.NoError(t, err)

	cart, err := env.service.UpdateCartItem(
		c,
		userAlice,
		request.UpdateCartItem{ProductId: productBeans, Quantity: 0},
	)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)

	// removing an absent item through a zero quantity update stays silent
	cart, err = env.service.UpdateCartItem(
		c,
		userAlice,
		request.UpdateCartItem{ProductId: productBeans, Quantity: 0},
	)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
}

func TestUpdateCartItemAbsentProduct(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 2},
	)
	require.NoError(t, err)

	_, err = env.service.UpdateCartItem(
		c,
		userAlice,
		request.UpdateCartItem{ProductId: productFilters, Quantity: 3},
	)
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
}

func TestRemoveCartItem(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 2},
	)
	require.NoError(t, err)

	cart, err := env.service.RemoveCartItem(
		c,
		userAlice,
		request.RemoveCartItem{ProductId: productBeans},
	)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)

	_, err = env.service.RemoveCartItem(
		c,
		userAlice,
		request.RemoveCartItem{ProductId: productBeans},
	)
	assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)
}

func TestCartTotalPricesFromCatalog(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 2},
	)
	require.NoError(t, err)
	_, err = env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productFilters, Quantity: 2},
	)
	require.NoError(t, err)

	total, err := env.service.CartTotal(c, userAlice)
	require.NoError(t, err)
	assert.True(
		t,
		total.Total.Equal(decimal.RequireFromString("25.00")),
		"expected total 25.00 got %s",
		total.Total.String(),
	)
}

type fakeCatalog struct {
	products map[uuid.UUID]port.CatalogProduct
}

func (f fakeCatalog) FindProductById(
	c context.Context,
	productId uuid.UUID,
) (port.CatalogProduct, error) {
	product, ok := f.products[productId]
	if !ok {
		return port.CatalogProduct{}, inErrors.ErrProductNotFound
	}
	return product, nil
}

func (f fakeCatalog) DecrementStock(
	c context.Context,
	tx pgx.Tx,
	items []port.StockDecrement,
) ([]port.FrozenItem, error) {
	return nil, inErrors.ErrProductNotFound
}

func TestCartTotalExactDecimal(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 3},
	)
	require.NoError(t, err)

	catalog := fakeCatalog{
		products: map[uuid.UUID]port.CatalogProduct{
			productBeans: {
				ID:       productBeans,
				Name:     "single origin beans",
				Price:    decimal.RequireFromString("0.10"),
				Quantity: 100,
			},
		},
	}
	service := NewCartService(env.pool, env.queries, env.cache, catalog, nil)

	total, err := service.CartTotal(c, userAlice)
	require.NoError(t, err)
	assert.True(
		t,
		total.Total.Equal(decimal.RequireFromString("0.30")),
		"expected total 0.30 got %s",
		total.Total.String(),
	)
}

func TestCartTotalDanglingProduct(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 1},
	)
	require.NoError(t, err)

	catalog := fakeCatalog{products: map[uuid.UUID]port.CatalogProduct{}}
	service := NewCartService(env.pool, env.queries, env.cache, catalog, nil)

	_, err = service.CartTotal(c, userAlice)
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestCheckout(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 3},
	)
	require.NoError(t, err)
	_, err = env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productFilters, Quantity: 4},
	)
	require.NoError(t, err)

	checkout, err := env.service.Checkout(c, userAlice)
	require.NoError(t, err)
	assert.True(
		t,
		checkout.Total.Equal(decimal.RequireFromString("40.00")),
		"expected total 40.00 got %s",
		checkout.Total.String(),
	)

	beans, err := env.queries.FindProductById(c, productBeans)
	require.NoError(t, err)
	assert.Equal(t, int32(97), beans.Quantity)
	filters, err := env.queries.FindProductById(c, productFilters)
	require.NoError(t, err)
	assert.Equal(t, int32(46), filters.Quantity)

	cart, err := env.service.FindCartByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)

	order, err := env.queries.FindOrderById(
		c,
		repository.FindOrderByIdParams{ID: checkout.OrderId, UserID: userAlice},
	)
	require.NoError(t, err)
	items, err := env.queries.FindOrderItems(c, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		price := repository.DecimalFromNumeric(item.Price)
		switch item.ProductID {
		case productBeans:
			assert.Equal(t, int32(3), item.Quantity)
			assert.True(t, price.Equal(decimal.RequireFromString("10.00")))
		case productFilters:
			assert.Equal(t, int32(4), item.Quantity)
			assert.True(t, price.Equal(decimal.RequireFromString("2.50")))
		default:
			t.Fatalf("unexpected productId=%s in order", item.ProductID)
		}
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.Checkout(c, userAlice)
	assert.ErrorIs(t, err, inErrors.ErrEmptyCart)

	// a cart emptied after adding items behaves the same
	_, err = env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 1},
	)
	require.NoError(t, err)
	require.NoError(t, env.service.ClearCart(c, userAlice))
	_, err = env.service.Checkout(c, userAlice)
	assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	_, err := env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productBeans, Quantity: 1},
	)
	require.NoError(t, err)
	_, err = env.service.AddCartItem(
		c,
		userAlice,
		request.AddCartItem{ProductId: productGrinder, Quantity: 6},
	)
	require.NoError(t, err)

	_, err = env.service.Checkout(c, userAlice)
	require.ErrorIs(t, err, inErrors.ErrOutOfStock)

	var outOfStock inErrors.OutOfStockError
	require.ErrorAs(t, err, &outOfStock)
	assert.Equal(t, []uuid.UUID{productGrinder}, outOfStock.ProductIds)

	// nothing was decremented, not even the product that had enough stock
	beans, err := env.queries.FindProductById(c, productBeans)
	require.NoError(t, err)
	assert.Equal(t, int32(100), beans.Quantity)
	grinder, err := env.queries.FindProductById(c, productGrinder)
	require.NoError(t, err)
	assert.Equal(t, int32(5), grinder.Quantity)

	// the cart survives a failed checkout
	cart, err := env.service.FindCartByUserId(c, userAlice)
	require.NoError(t, err)
	assert.Len(t, cart.CartItems, 2)
}

func TestCheckoutConcurrentOverstock(t *testing.T) {
	c := context.Background()
	env := setup(t)(c, seedProducts())
	defer teardown(t)(env)

	// 8 users each want 3 mugs out of a stock of 10, so exactly 3 checkouts
	// can succeed and one mug stays on the shelf
	const (
		buyers      = 8
		perCart     = 3
		wantSuccess = 3
	)
	userIds := make([]uuid.UUID, buyers)
	for i := range userIds {
		userIds[i] = uuid.New()
		_, err := env.queries.InsertUser(c, repository.InsertUserParams{
			ID:       userIds[i],
			Name:     "buyer",
			Email:    userIds[i].String() + "@mail.com",
			Password: "irrelevant",
		})
		require.NoError(t, err)
		_, err = env.service.AddCartItem(
			c,
			userIds[i],
			request.AddCartItem{ProductId: productMug, Quantity: perCart},
		)
		require.NoError(t, err)
	}

	var mu sync.Mutex
	checkoutErrs := make([]error, 0, buyers)
	g := errgroup.Group{}
	for _, userId := range userIds {
		g.Go(func() error {
			_, err := env.service.Checkout(c, userId)
			mu.Lock()
			checkoutErrs = append(checkoutErrs, err)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range checkoutErrs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, inErrors.ErrOutOfStock)
	}
	assert.Equal(t, wantSuccess, succeeded)

	mug, err := env.queries.FindProductById(c, productMug)
	require.NoError(t, err)
	assert.Equal(t, int32(10-wantSuccess*perCart), mug.Quantity)

	orders := 0
	for _, userId := range userIds {
		userOrders, err := env.queries.FindOrdersByUserId(c, userId)
		require.NoError(t, err)
		orders += len(userOrders)
	}
	assert.Equal(t, wantSuccess, orders)
}
