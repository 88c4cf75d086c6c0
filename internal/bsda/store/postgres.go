package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// PostgresFinder reads previous-bordereau projections from the bsda table.
type PostgresFinder struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresFinder {
	return &PostgresFinder{pool: pool}
}

const findByIDsQuery = `
SELECT id,
       COALESCE(waste_code, ''),
       status,
       COALESCE(destination_operation_code, ''),
       COALESCE(destination_company_siret, '')
FROM bsdas
WHERE id = ANY($1)`

func (f *PostgresFinder) FindByIDs(ctx context.Context, ids []domain.BsdaID) ([]ports.PreviousBsda, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	rows, err := f.pool.Query(ctx, findByIDsQuery, raw)
	if err != nil {
		return nil, fmt.Errorf("query previous bsdas: %w", err)
	}
	defer rows.Close()

	var out []ports.PreviousBsda
	for rows.Next() {
		var b ports.PreviousBsda
		var id string
		if err := rows.Scan(&id, &b.WasteCode, &b.Status, &b.DestinationOperationCode, &b.DestinationCompanySiret); err != nil {
			return nil, fmt.Errorf("scan previous bsda: %w", err)
		}
		b.ID = domain.BsdaID(id)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate previous bsdas: %w", err)
	}
	return out, nil
}
