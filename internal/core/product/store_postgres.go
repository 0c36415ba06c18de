// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/tradepost/internal/platform/database/schema"
	"github.com/taibuivan/tradepost/internal/platform/dberr"
	"github.com/taibuivan/tradepost/pkg/money"
)

// Querier is the subset of pgxpool.Pool used by the repository.
type Querier interface {
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
}

type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListProducts(context context.Context) ([]*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.CoreProduct.ID,
		schema.CoreProduct.Name,
		schema.CoreProduct.Price,
		schema.CoreProduct.Table,
		schema.CoreProduct.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_products")
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		p := &Product{}
		var price int64
		if err := rows.Scan(&p.ID, &p.Name, &price); err != nil {
			return nil, dberr.Wrap(err, "scan_product")
		}
		p.Price = money.Cents(price)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_products")
	}

	return products, nil
}
