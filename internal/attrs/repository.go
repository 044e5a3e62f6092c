package attrs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores category attribute schemas in Postgres, one row per
// category with the attribute list as JSONB.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetSchema(ctx context.Context, categoryID string) ([]CategoryAttribute, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT attributes FROM category_attributes WHERE category_id = $1`, categoryID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("attrs: get schema: %w", err)
	}
	var schema []CategoryAttribute
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("attrs: decode schema: %w", err)
	}
	return schema, nil
}

func (r *Repository) PutSchema(ctx context.Context, categoryID string, schema []CategoryAttribute) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("attrs: encode schema: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO category_attributes (category_id, attributes, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (category_id) DO UPDATE SET attributes = EXCLUDED.attributes, updated_at = now()`,
		categoryID, raw,
	)
	if err != nil {
		return fmt.Errorf("attrs: put schema: %w", err)
	}
	return nil
}
