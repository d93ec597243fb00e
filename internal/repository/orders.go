package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOrder = `
INSERT INTO orders (id, user_id, status)
VALUES ($1, $2, $3)
RETURNING id, user_id, status, created_at, updated_at
`

type InsertOrderParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Status string
}

func (q *Queries) InsertOrder(c context.Context, arg InsertOrderParams) (Order, error) {
	row := q.db.QueryRow(c, insertOrder, arg.ID, arg.UserID, arg.Status)
	var order Order
	err := row.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	return order, err
}

type InsertOrderItemsParams struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
	Price     pgtype.Numeric
}

func (q *Queries) InsertOrderItems(c context.Context, arg []InsertOrderItemsParams) (int64, error) {
	rows := make([][]interface{}, len(arg))
	for i, item := range arg {
		rows[i] = []interface{}{item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price}
	}
	return q.db.CopyFrom(
		c,
		pgx.Identifier{"order_items"},
		[]string{"id", "order_id", "product_id", "quantity", "price"},
		pgx.CopyFromRows(rows),
	)
}

const findOrdersByUserId = `
SELECT id, user_id, status, created_at, updated_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) FindOrdersByUserId(c context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(c, findOrdersByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []Order{}
	for rows.Next() {
		var order Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

const findOrderById = `
SELECT id, user_id, status, created_at, updated_at
FROM orders
WHERE id = $1
  AND user_id = $2
`

type FindOrderByIdParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) FindOrderById(c context.Context, arg FindOrderByIdParams) (Order, error) {
	row := q.db.QueryRow(c, findOrderById, arg.ID, arg.UserID)
	var order Order
	err := row.Scan(&order.ID, &order.UserID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	return order, err
}

const findOrderItems = `
SELECT id, order_id, product_id, quantity, price, created_at, updated_at
FROM order_items
WHERE order_id = $1
ORDER BY product_id
`

func (q *Queries) FindOrderItems(c context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(c, findOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
