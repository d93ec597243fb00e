package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertProduct = `
INSERT INTO products (id, name, description, price, quantity, image_url, category)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, description, price, quantity, image_url, category, created_at, updated_at
`

type InsertProductParams struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Quantity    int32
	ImageUrl    pgtype.Text
	Category    string
}

func (q *Queries) InsertProduct(c context.Context, arg InsertProductParams) (Product, error) {
	row := q.db.QueryRow(c, insertProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Quantity,
		arg.ImageUrl,
		arg.Category,
	)
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.ImageUrl,
		&p.Category,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const findProducts = `
SELECT id, name, description, price, quantity, image_url, category, created_at, updated_at
FROM products
ORDER BY name
`

func (q *Queries) FindProducts(c context.Context) ([]Product, error) {
	rows, err := q.db.Query(c, findProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const findProductById = `
SELECT id, name, description, price, quantity, image_url, category, created_at, updated_at
FROM products
WHERE id = $1
`

func (q *Queries) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(c, findProductById, id)
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.ImageUrl,
		&p.Category,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const findProductByName = `
SELECT id, name, description, price, quantity, image_url, category, created_at, updated_at
FROM products
WHERE name = $1
`

func (q *Queries) FindProductByName(c context.Context, name string) (Product, error) {
	row := q.db.QueryRow(c, findProductByName, name)
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.ImageUrl,
		&p.Category,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const searchProducts = `
SELECT id, name, description, price, quantity, image_url, category, created_at, updated_at
FROM products
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
  AND ($2 = '' OR category = $2)
ORDER BY name
`

type SearchProductsParams struct {
	Name     string
	Category string
}

func (q *Queries) SearchProducts(c context.Context, arg SearchProductsParams) ([]Product, error) {
	rows, err := q.db.Query(c, searchProducts, arg.Name, arg.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const findCategories = `
SELECT DISTINCT category FROM products ORDER BY category
`

func (q *Queries) FindCategories(c context.Context) ([]string, error) {
	rows, err := q.db.Query(c, findCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

const updateProduct = `
UPDATE products
SET name = $2,
    description = $3,
    price = $4,
    quantity = $5,
    image_url = $6,
    category = $7,
    updated_at = now()
WHERE id = $1
RETURNING id, name, description, price, quantity, image_url, category, created_at, updated_at
`

type UpdateProductParams struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Quantity    int32
	ImageUrl    pgtype.Text
	Category    string
}

func (q *Queries) UpdateProduct(c context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(c, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Quantity,
		arg.ImageUrl,
		arg.Category,
	)
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.ImageUrl,
		&p.Category,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const deleteProduct = `
DELETE FROM products
WHERE id = $1
RETURNING id, name, description, price, quantity, image_url, category, created_at, updated_at
`

func (q *Queries) DeleteProduct(c context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(c, deleteProduct, id)
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.ImageUrl,
		&p.Category,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const findProductsForUpdate = `
SELECT id, name, description, price, quantity, image_url, category, created_at, updated_at
FROM products
WHERE id = ANY($1::uuid[])
ORDER BY id
FOR UPDATE
`

// FindProductsForUpdate locks the product rows for the duration of the
// surrounding transaction. Rows are locked in id order so concurrent
// checkouts acquire locks in the same order.
func (q *Queries) FindProductsForUpdate(c context.Context, ids []uuid.UUID) ([]Product, error) {
	rows, err := q.db.Query(c, findProductsForUpdate, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const decrementProductQuantity = `
UPDATE products
SET quantity = quantity - $2,
    updated_at = now()
WHERE id = $1
  AND quantity >= $2
`

type DecrementProductQuantityParams struct {
	ID       uuid.UUID
	Quantity int32
}

// DecrementProductQuantity decrements stock only when enough remains; the
// caller must treat zero affected rows as insufficient stock.
func (q *Queries) DecrementProductQuantity(
	c context.Context,
	arg DecrementProductQuantityParams,
) (int64, error) {
	tag, err := q.db.Exec(c, decrementProductQuantity, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := []Product{}
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Quantity,
			&p.ImageUrl,
			&p.Category,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
