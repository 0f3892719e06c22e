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

type tenantRow struct {
	bun.BaseModel `bun:"table:tenants,alias:t"`

	ID        string `bun:"id,pk"`
	Name      string `bun:"name"`
	Document  string `bun:"document"`
	Email     string `bun:"email"`
	Phone     string `bun:"phone"`
	CreatedAt string `bun:"created_at"`
}

// Tenants is a plain single-table CRUD mapper.
type Tenants struct {
	base
}

var _ Repository[domain.Tenant, domain.TenantPatch] = (*Tenants)(nil)

func NewTenants(m *database.Manager, c cache.Service) *Tenants {
	return &Tenants{base: newBase("tenants", m, c)}
}

func (r *Tenants) FindAll(ctx context.Context) ([]domain.Tenant, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []tenantRow
	if err := db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	tenants := make([]domain.Tenant, len(rows))
	for i, row := range rows {
		tenants[i] = tenantFromRow(row)
	}
	return tenants, nil
}

func (r *Tenants) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var row tenantRow
	if err := db.NewSelect().Model(&row).Where("t.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	tenant := tenantFromRow(row)
	return &tenant, nil
}

func (r *Tenants) Create(ctx context.Context, record domain.Tenant) (*domain.Tenant, error) {
	if err := record.Validate(); err != nil {
		return nil, errs.Validation("invalid tenant", err)
	}

	record.ID = r.generateID("tenant")
	record.CreatedAt = nowStamp()

	row := tenantRow{
		ID:        record.ID,
		Name:      record.Name,
		Document:  record.Document,
		Email:     record.Email,
		Phone:     record.Phone,
		CreatedAt: record.CreatedAt,
	}

	db, err := r.db()
	if err != nil {
		return nil, err
	}
	if _, err := db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return nil, errs.FromStore(err, "tenant", record.ID)
	}

	r.invalidateEntityCache(ctx)
	return &record, nil
}

func (r *Tenants) Update(ctx context.Context, id string, patch domain.TenantPatch) (*domain.Tenant, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	exists, err := db.NewSelect().Model((*tenantRow)(nil)).Where("t.id = ?", id).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NotFound("tenant", id)
	}

	q := db.NewUpdate().Model((*tenantRow)(nil)).Where("t.id = ?", id)
	columns := 0
	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
		columns++
	}
	if patch.Document != nil {
		q = q.Set("document = ?", *patch.Document)
		columns++
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
		columns++
	}
	if patch.Phone != nil {
		q = q.Set("phone = ?", *patch.Phone)
		columns++
	}
	if columns > 0 {
		if _, err := q.Exec(ctx); err != nil {
			return nil, errs.FromStore(err, "tenant", id)
		}
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

func (r *Tenants) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*tenantRow)(nil)).Where("t.id = ?", id).Exec(ctx); err != nil {
		return errs.FromStore(err, "tenant", id)
	}
	r.invalidateEntityCache(ctx)
	return nil
}

func tenantFromRow(row tenantRow) domain.Tenant {
	return domain.Tenant{
		ID:        row.ID,
		Name:      row.Name,
		Document:  row.Document,
		Email:     row.Email,
		Phone:     row.Phone,
		CreatedAt: row.CreatedAt,
	}
}
