package repository

import (
	"github.com/shopspring/decimal"

	cartResponse "github.com/wibowo/storefront/cart/pkg/response"
	orderResponse "github.com/wibowo/storefront/order/pkg/response"
	productResponse "github.com/wibowo/storefront/product/pkg/response"
	userResponse "github.com/wibowo/storefront/user/pkg/response"
)

func (p Product) Response() productResponse.Product {
	return productResponse.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description.String,
		Price:       DecimalFromNumeric(p.Price),
		Quantity:    p.Quantity,
		ImageUrl:    p.ImageUrl.String,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (c Cart) Response(items []CartItem) cartResponse.Cart {
	cartItems := make([]cartResponse.CartItem, len(items))
	for i, item := range items {
		cartItems[i] = cartResponse.CartItem{
			ID:        item.ID,
			CartID:    item.CartID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt.Time,
			UpdatedAt: item.UpdatedAt.Time,
		}
	}
	return cartResponse.Cart{
		ID:        c.ID,
		UserID:    c.UserID,
		CartItems: cartItems,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}

func (o Order) Response(items []OrderItem) orderResponse.Order {
	total := decimal.Zero
	orderItems := make([]orderResponse.OrderItem, len(items))
	for i, item := range items {
		price := DecimalFromNumeric(item.Price)
		total = total.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
		orderItems[i] = orderResponse.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
			CreatedAt: item.CreatedAt.Time,
			UpdatedAt: item.UpdatedAt.Time,
		}
	}
	return orderResponse.Order{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     o.Status,
		OrderItems: orderItems,
		Total:      total,
		CreatedAt:  o.CreatedAt.Time,
		UpdatedAt:  o.UpdatedAt.Time,
	}
}

func (u User) Response() userResponse.User {
	return userResponse.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Time,
		UpdatedAt: u.UpdatedAt.Time,
	}
}
