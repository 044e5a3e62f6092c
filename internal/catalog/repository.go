package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists catalog data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, product_id, variation_id, name, sku, brand, image_url,
	sale_price, landed_cost, shipping_cost,
	purchase_qty, sold_qty, stock_qty, return_qty, sold_7d, sold_30d, sold_90d,
	velocity, stock_days, restock_status,
	marketplaces, product_type, kit_components, created_at, updated_at`

// ListProducts returns products matching the filter, newest first.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Brand != "" {
		query += fmt.Sprintf(" AND brand = $%d", idx)
		args = append(args, filter.Brand)
		idx++
	}
	if filter.ProductType != "" {
		query += fmt.Sprintf(" AND product_type = $%d", idx)
		args = append(args, string(filter.ProductType))
		idx++
	}
	if filter.RestockStatus != "" {
		query += fmt.Sprintf(" AND restock_status = $%d", idx)
		args = append(args, string(filter.RestockStatus))
		idx++
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches one product row by id.
func (r *Repository) GetProduct(ctx context.Context, id string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return Product{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Product{}, err
		}
		return Product{}, ErrProductNotFound
	}
	return scanProduct(rows)
}

// InsertProduct stores a new product.
func (r *Repository) InsertProduct(ctx context.Context, p Product) error {
	marketplaces, kitComponents, err := marshalJSONFields(p)
	if err != nil {
		return err
	}
	const query = `INSERT INTO products (` + productColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`
	_, err = r.pool.Exec(ctx, query,
		p.ID, p.ProductID, p.VariationID, p.Name, p.SKU, p.Brand, p.ImageURL,
		p.SalePrice, p.LandedCost, p.ShippingCost,
		p.PurchaseQty, p.SoldQty, p.StockQty, p.ReturnQty, p.Sold7d, p.Sold30d, p.Sold90d,
		p.Velocity, p.StockDays, string(p.RestockStatus),
		marketplaces, string(p.ProductType), kitComponents, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSKU
	}
	return err
}

// UpdateProduct rewrites a product row.
func (r *Repository) UpdateProduct(ctx context.Context, p Product) error {
	marketplaces, kitComponents, err := marshalJSONFields(p)
	if err != nil {
		return err
	}
	const query = `UPDATE products SET
		name=$2, sku=$3, brand=$4, image_url=$5,
		sale_price=$6, landed_cost=$7, shipping_cost=$8,
		purchase_qty=$9, sold_qty=$10, stock_qty=$11, return_qty=$12,
		sold_7d=$13, sold_30d=$14, sold_90d=$15,
		velocity=$16, stock_days=$17, restock_status=$18,
		marketplaces=$19, product_type=$20, kit_components=$21, updated_at=$22
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.SKU, p.Brand, p.ImageURL,
		p.SalePrice, p.LandedCost, p.ShippingCost,
		p.PurchaseQty, p.SoldQty, p.StockQty, p.ReturnQty,
		p.Sold7d, p.Sold30d, p.Sold90d,
		p.Velocity, p.StockDays, string(p.RestockStatus),
		marketplaces, string(p.ProductType), kitComponents, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product row.
func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func scanProduct(rows pgx.Rows) (Product, error) {
	var (
		p                 Product
		restockStatus     string
		productType       string
		marketplacesJSON  []byte
		kitComponentsJSON []byte
	)
	// stock_days scans straight into the pointer field: NULL is unbounded cover.
	err := rows.Scan(
		&p.ID, &p.ProductID, &p.VariationID, &p.Name, &p.SKU, &p.Brand, &p.ImageURL,
		&p.SalePrice, &p.LandedCost, &p.ShippingCost,
		&p.PurchaseQty, &p.SoldQty, &p.StockQty, &p.ReturnQty, &p.Sold7d, &p.Sold30d, &p.Sold90d,
		&p.Velocity, &p.StockDays, &restockStatus,
		&marketplacesJSON, &productType, &kitComponentsJSON, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	p.RestockStatus = RestockStatus(restockStatus)
	p.ProductType = ProductType(productType)
	if len(marketplacesJSON) > 0 {
		if err := json.Unmarshal(marketplacesJSON, &p.Marketplaces); err != nil {
			return Product{}, fmt.Errorf("catalog: decode marketplaces: %w", err)
		}
	}
	if len(kitComponentsJSON) > 0 {
		if err := json.Unmarshal(kitComponentsJSON, &p.KitComponents); err != nil {
			return Product{}, fmt.Errorf("catalog: decode kit components: %w", err)
		}
	}
	return p, nil
}

func marshalJSONFields(p Product) ([]byte, []byte, error) {
	marketplaces, err := json.Marshal(p.Marketplaces)
	if err != nil {
		return nil, nil, err
	}
	kitComponents, err := json.Marshal(p.KitComponents)
	if err != nil {
		return nil, nil, err
	}
	return marketplaces, kitComponents, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
