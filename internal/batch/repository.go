package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists batches and items in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const batchColumns = `id, name, status, total_items, success_count, failed_count, selected_marketplaces, created_at, updated_at`

const itemColumns = `id, batch_id, product_id, product_name, product_sku, product_image, stock_qty, sale_price, profit_margin, marketplace, status, error_message, category_id, created_at, updated_at`

func (r *Repository) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+batchColumns+` FROM marketplace_batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("batch: list batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) GetBatch(ctx context.Context, id string) (Batch, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+batchColumns+` FROM marketplace_batches WHERE id = $1`, id)
	b, err := scanBatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, ErrBatchNotFound
	}
	return b, err
}

func (r *Repository) CreateBatch(ctx context.Context, b Batch) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO marketplace_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Name, b.Status, b.TotalItems, b.SuccessCount, b.FailedCount,
		b.SelectedMarketplaces, b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("batch: insert batch: %w", err)
	}
	return nil
}

func (r *Repository) UpdateBatch(ctx context.Context, id string, patch BatchPatch) error {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.SuccessCount != nil {
		add("success_count", *patch.SuccessCount)
	}
	if patch.FailedCount != nil {
		add("failed_count", *patch.FailedCount)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE marketplace_batches SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("batch: update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// DeleteBatch removes a batch; batch_items rows follow via ON DELETE CASCADE.
func (r *Repository) DeleteBatch(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM marketplace_batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("batch: delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (r *Repository) ListItems(ctx context.Context, batchID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM batch_items WHERE batch_id = $1 ORDER BY created_at, id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("batch: list items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *Repository) GetItem(ctx context.Context, id string) (Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM batch_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return item, err
}

func (r *Repository) InsertItems(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO batch_items (`+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			item.ID, item.BatchID, item.ProductID, item.ProductName, item.ProductSKU,
			item.ProductImage, item.StockQty, item.SalePrice, item.ProfitMargin,
			item.Marketplace, item.Status, item.ErrorMessage, item.CategoryID,
			item.CreatedAt, item.UpdatedAt,
		)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch: insert items: %w", err)
		}
	}
	return nil
}

func (r *Repository) UpdateItem(ctx context.Context, id string, patch ItemPatch) error {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ClearError {
		sets = append(sets, "error_message = NULL")
	} else if patch.ErrorMessage != nil {
		add("error_message", *patch.ErrorMessage)
	}
	if patch.ProductName != nil {
		add("product_name", *patch.ProductName)
	}
	if patch.ProductSKU != nil {
		add("product_sku", *patch.ProductSKU)
	}
	if patch.StockQty != nil {
		add("stock_qty", *patch.StockQty)
	}
	if patch.SalePrice != nil {
		add("sale_price", *patch.SalePrice)
	}
	if patch.ProfitMargin != nil {
		add("profit_margin", *patch.ProfitMargin)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE batch_items SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("batch: update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func scanBatch(row pgx.Row) (Batch, error) {
	var b Batch
	err := row.Scan(
		&b.ID, &b.Name, &b.Status, &b.TotalItems, &b.SuccessCount, &b.FailedCount,
		&b.SelectedMarketplaces, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.BatchID, &item.ProductID, &item.ProductName, &item.ProductSKU,
		&item.ProductImage, &item.StockQty, &item.SalePrice, &item.ProfitMargin,
		&item.Marketplace, &item.Status, &item.ErrorMessage, &item.CategoryID,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
