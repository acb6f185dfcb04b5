package repo

import (
	"context"
	"fmt"

	"imagegenie/internal/domain"
	"imagegenie/internal/infra"
	"imagegenie/internal/sqlinline"
)

// OptionCatalogPG implements domain.OptionCatalog on PostgreSQL.
type OptionCatalogPG struct {
	db infra.SQLExecutor
}

func NewOptionCatalog(db infra.SQLExecutor) *OptionCatalogPG {
	return &OptionCatalogPG{db: db}
}

// List returns the labels of category in seeded order.
func (r *OptionCatalogPG) List(ctx context.Context, category domain.Category) ([]string, error) {
	if !category.Valid() {
		return nil, domain.ErrUnknownCategory
	}
	rows, err := r.db.Query(ctx, sqlinline.QSelectOptionsByCategory, category.Key())
	if err != nil {
		return nil, fmt.Errorf("option catalog: list %s: %w", category, err)
	}
	defer rows.Close()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("option catalog: scan %s: %w", category, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("option catalog: list %s: %w", category, err)
	}
	return names, nil
}

// Reseed replaces every label of category with labels, keeping their order.
func (r *OptionCatalogPG) Reseed(ctx context.Context, category domain.Category, labels []string) error {
	if !category.Valid() {
		return domain.ErrUnknownCategory
	}
	if labels == nil {
		labels = []string{}
	}
	if _, err := r.db.Exec(ctx, sqlinline.QReseedOptions, category.Key(), labels); err != nil {
		return fmt.Errorf("option catalog: reseed %s: %w", category, err)
	}
	return nil
}

var _ domain.OptionCatalog = (*OptionCatalogPG)(nil)
