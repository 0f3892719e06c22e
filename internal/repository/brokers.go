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

// defaultCommissionRate applies when a create payload leaves the rate zero.
const defaultCommissionRate = 5.0

type brokerRow struct {
	bun.BaseModel `bun:"table:brokers,alias:b"`

	ID             string  `bun:"id,pk"`
	Name           string  `bun:"name"`
	Document       string  `bun:"document"`
	Email          string  `bun:"email"`
	Phone          string  `bun:"phone"`
	CRECI          string  `bun:"creci"`
	CommissionRate float64 `bun:"commission_rate"`
	CreatedAt      string  `bun:"created_at"`
}

// Brokers is a plain single-table CRUD mapper with a server-side default
// commission rate.
type Brokers struct {
	base
}

var _ Repository[domain.Broker, domain.BrokerPatch] = (*Brokers)(nil)

func NewBrokers(m *database.Manager, c cache.Service) *Brokers {
	return &Brokers{base: newBase("brokers", m, c)}
}

func (r *Brokers) FindAll(ctx context.Context) ([]domain.Broker, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []brokerRow
	if err := db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	brokers := make([]domain.Broker, len(rows))
	for i, row := range rows {
		brokers[i] = brokerFromRow(row)
	}
	return brokers, nil
}

func (r *Brokers) FindByID(ctx context.Context, id string) (*domain.Broker, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var row brokerRow
	if err := db.NewSelect().Model(&row).Where("b.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	broker := brokerFromRow(row)
	return &broker, nil
}

func (r *Brokers) Create(ctx context.Context, record domain.Broker) (*domain.Broker, error) {
	if err := record.Validate(); err != nil {
		return nil, errs.Validation("invalid broker", err)
	}

	record.ID = r.generateID("broker")
	record.CreatedAt = nowStamp()
	if record.CommissionRate == 0 {
		record.CommissionRate = defaultCommissionRate
	}

	row := brokerRow{
		ID:             record.ID,
		Name:           record.Name,
		Document:       record.Document,
		Email:          record.Email,
		Phone:          record.Phone,
		CRECI:          record.CRECI,
		CommissionRate: record.CommissionRate,
		CreatedAt:      record.CreatedAt,
	}

	db, err := r.db()
	if err != nil {
		return nil, err
	}
	if _, err := db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return nil, errs.FromStore(err, "broker", record.ID)
	}

	r.invalidateEntityCache(ctx)
	return &record, nil
}

func (r *Brokers) Update(ctx context.Context, id string, patch domain.BrokerPatch) (*domain.Broker, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	exists, err := db.NewSelect().Model((*brokerRow)(nil)).Where("b.id = ?", id).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NotFound("broker", id)
	}

	q := db.NewUpdate().Model((*brokerRow)(nil)).Where("b.id = ?", id)
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
	if patch.CRECI != nil {
		q = q.Set("creci = ?", *patch.CRECI)
		columns++
	}
	if patch.CommissionRate != nil {
		q = q.Set("commission_rate = ?", *patch.CommissionRate)
		columns++
	}
	if columns > 0 {
		if _, err := q.Exec(ctx); err != nil {
			return nil, errs.FromStore(err, "broker", id)
		}
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

func (r *Brokers) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*brokerRow)(nil)).Where("b.id = ?", id).Exec(ctx); err != nil {
		return errs.FromStore(err, "broker", id)
	}
	r.invalidateEntityCache(ctx)
	return nil
}

func brokerFromRow(row brokerRow) domain.Broker {
	return domain.Broker{
		ID:             row.ID,
		Name:           row.Name,
		Document:       row.Document,
		Email:          row.Email,
		Phone:          row.Phone,
		CRECI:          row.CRECI,
		CommissionRate: row.CommissionRate,
		CreatedAt:      row.CreatedAt,
	}
}
