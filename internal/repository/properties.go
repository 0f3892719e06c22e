package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/database"
	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/errs"
)

type propertyRow struct {
	bun.BaseModel `bun:"table:properties,alias:p"`

	ID         string  `bun:"id,pk"`
	OwnerID    string  `bun:"owner_id"`
	Address    string  `bun:"address"`
	City       string  `bun:"city"`
	State      string  `bun:"state"`
	TypeCode   string  `bun:"type_code"`
	StatusCode string  `bun:"status_code"`
	RentValue  float64 `bun:"rent_value"`
	Notes      string  `bun:"notes"`
	CreatedAt  string  `bun:"created_at"`
}

// Properties maps property records onto the properties table, translating
// the status/type lookup codes to the domain display labels.
type Properties struct {
	base
}

var _ Repository[domain.Property, domain.PropertyPatch] = (*Properties)(nil)

func NewProperties(m *database.Manager, c cache.Service) *Properties {
	return &Properties{base: newBase("properties", m, c)}
}

func (r *Properties) FindAll(ctx context.Context) ([]domain.Property, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var rows []propertyRow
	if err := db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	properties := make([]domain.Property, len(rows))
	for i, row := range rows {
		p, err := propertyFromRow(row)
		if err != nil {
			return nil, err
		}
		properties[i] = p
	}
	return properties, nil
}

func (r *Properties) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var row propertyRow
	if err := db.NewSelect().Model(&row).Where("p.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p, err := propertyFromRow(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Properties) Create(ctx context.Context, record domain.Property) (*domain.Property, error) {
	if err := record.Validate(); err != nil {
		return nil, errs.Validation("invalid property", err)
	}

	if record.Status == "" {
		record.Status = domain.PropertyStatusAvailable
	}
	statusCode, err := domain.PropertyStatusCode(record.Status)
	if err != nil {
		return nil, errs.Validation("invalid property", err)
	}
	if record.Type == "" {
		record.Type = domain.PropertyTypeOther
	}

	record.ID = r.generateID("property")
	record.CreatedAt = nowStamp()

	row := propertyRow{
		ID:         record.ID,
		OwnerID:    record.OwnerID,
		Address:    record.Address,
		City:       record.City,
		State:      record.State,
		TypeCode:   domain.PropertyTypeCode(record.Type),
		StatusCode: statusCode,
		RentValue:  record.RentValue,
		Notes:      record.Notes,
		CreatedAt:  record.CreatedAt,
	}

	db, err := r.db()
	if err != nil {
		return nil, err
	}
	if _, err := db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return nil, errs.FromStore(err, "property", record.ID)
	}

	r.invalidateEntityCache(ctx)
	created, err := propertyFromRow(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *Properties) Update(ctx context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*propertyRow)(nil)).Where("p.id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFound("property", id)
		}

		q := tx.NewUpdate().Model((*propertyRow)(nil)).Where("p.id = ?", id)
		columns := 0
		if patch.OwnerID != nil {
			q = q.Set("owner_id = ?", *patch.OwnerID)
			columns++
		}
		if patch.Address != nil {
			q = q.Set("address = ?", *patch.Address)
			columns++
		}
		if patch.City != nil {
			q = q.Set("city = ?", *patch.City)
			columns++
		}
		if patch.State != nil {
			q = q.Set("state = ?", *patch.State)
			columns++
		}
		if patch.Type != nil {
			q = q.Set("type_code = ?", domain.PropertyTypeCode(*patch.Type))
			columns++
		}
		if patch.Status != nil {
			code, err := domain.PropertyStatusCode(*patch.Status)
			if err != nil {
				return errs.Validation("invalid property", err)
			}
			q = q.Set("status_code = ?", code)
			columns++
		}
		if patch.RentValue != nil {
			q = q.Set("rent_value = ?", *patch.RentValue)
			columns++
		}
		if patch.Notes != nil {
			q = q.Set("notes = ?", *patch.Notes)
			columns++
		}
		if columns == 0 {
			return nil
		}
		_, err = q.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, errs.FromStore(err, "property", id)
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

func (r *Properties) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*propertyRow)(nil)).Where("p.id = ?", id).Exec(ctx); err != nil {
		return errs.FromStore(err, "property", id)
	}
	r.invalidateEntityCache(ctx)
	return nil
}

// setPropertyStatus flips a property's status inside a caller-owned
// transaction. Used by the contracts repository for the rented/available
// transitions.
func setPropertyStatus(ctx context.Context, tx bun.Tx, propertyID, statusCode string) error {
	res, err := tx.NewUpdate().Model((*propertyRow)(nil)).
		Set("status_code = ?", statusCode).
		Where("p.id = ?", propertyID).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NotFound("property", propertyID)
	}
	return nil
}

func propertyFromRow(row propertyRow) (domain.Property, error) {
	status, err := domain.PropertyStatusLabel(row.StatusCode)
	if err != nil {
		// An unknown stored status is a data-integrity error; unknown
		// types fall back to "Outro" below. The asymmetry is deliberate.
		return domain.Property{}, errs.Internal("corrupt property row", err)
	}
	return domain.Property{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Address:   row.Address,
		City:      row.City,
		State:     row.State,
		Type:      domain.PropertyTypeLabel(row.TypeCode),
		Status:    status,
		RentValue: row.RentValue,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
	}, nil
}
