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

type contractRow struct {
	bun.BaseModel `bun:"table:contracts,alias:c"`

	ID         string  `bun:"id,pk"`
	PropertyID string  `bun:"property_id"`
	TenantID   string  `bun:"tenant_id"`
	BrokerID   *string `bun:"broker_id"`
	StartDate  string  `bun:"start_date"`
	EndDate    *string `bun:"end_date"`
	RentAmount float64 `bun:"rent_amount"`
	DueDay     int     `bun:"due_day"`
	CreatedAt  string  `bun:"created_at"`
}

type guaranteeRow struct {
	bun.BaseModel `bun:"table:guarantees,alias:g"`

	ID              string   `bun:"id,pk"`
	ContractID      string   `bun:"contract_id"`
	SecurityDeposit *float64 `bun:"security_deposit"`
	Complement      *string  `bun:"complement"`
}

// Contracts coordinates the three-table write path: the contract row, the
// optional 1:1 guarantee row, and the linked property's status flip.
type Contracts struct {
	base
	properties base
	financial  base
}

var _ Repository[domain.Contract, domain.ContractPatch] = (*Contracts)(nil)

func NewContracts(m *database.Manager, c cache.Service) *Contracts {
	return &Contracts{
		base: newBase("contracts", m, c),
		// Contract writes touch property status and cascade into financial
		// records, so those namespaces are invalidated alongside our own.
		properties: newBase("properties", m, c),
		financial:  newBase("financial_records", m, c),
	}
}

func (r *Contracts) FindAll(ctx context.Context) ([]domain.Contract, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var rows []contractRow
	if err := db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	var guarantees []guaranteeRow
	if err := db.NewSelect().Model(&guarantees).Scan(ctx); err != nil {
		return nil, err
	}

	guaranteeByContract := make(map[string]guaranteeRow, len(guarantees))
	for _, g := range guarantees {
		guaranteeByContract[g.ContractID] = g
	}

	contracts := make([]domain.Contract, len(rows))
	for i, row := range rows {
		g, ok := guaranteeByContract[row.ID]
		if ok {
			contracts[i] = contractFromRow(row, &g)
		} else {
			contracts[i] = contractFromRow(row, nil)
		}
	}
	return contracts, nil
}

func (r *Contracts) FindByID(ctx context.Context, id string) (*domain.Contract, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var row contractRow
	if err := db.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var guarantee *guaranteeRow
	var g guaranteeRow
	switch err := db.NewSelect().Model(&g).Where("g.contract_id = ?", id).Scan(ctx); {
	case err == nil:
		guarantee = &g
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	contract := contractFromRow(row, guarantee)
	return &contract, nil
}

// Create inserts the contract, the optional guarantee, and flips the linked
// property to rented, atomically.
func (r *Contracts) Create(ctx context.Context, record domain.Contract) (*domain.Contract, error) {
	if err := record.Validate(); err != nil {
		return nil, errs.Validation("invalid contract", err)
	}

	record.ID = r.generateID("contract")
	record.CreatedAt = nowStamp()
	if record.DueDay == 0 {
		record.DueDay = 5
	}

	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		row := contractRow{
			ID:         record.ID,
			PropertyID: record.PropertyID,
			TenantID:   record.TenantID,
			BrokerID:   nullable(record.BrokerID),
			StartDate:  record.StartDate,
			EndDate:    nullable(record.EndDate),
			RentAmount: record.RentAmount,
			DueDay:     record.DueDay,
			CreatedAt:  record.CreatedAt,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}

		if record.HasGuarantee() {
			g := guaranteeRow{
				ID:              r.generateID("guarantee"),
				ContractID:      record.ID,
				SecurityDeposit: record.SecurityDeposit,
				Complement:      nullable(record.Complement),
			}
			if _, err := tx.NewInsert().Model(&g).Exec(ctx); err != nil {
				return err
			}
		}

		return setPropertyStatus(ctx, tx, record.PropertyID, "rented")
	})
	if err != nil {
		return nil, errs.FromStore(err, "contract", record.ID)
	}

	r.invalidateEntityCache(ctx)
	r.properties.invalidateEntityCache(ctx)
	return &record, nil
}

// Update merges the provided contract fields and upserts the guarantee
// independently: a patch carrying only guarantee detail inserts or updates
// the guarantee row without touching contract columns.
func (r *Contracts) Update(ctx context.Context, id string, patch domain.ContractPatch) (*domain.Contract, error) {
	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*contractRow)(nil)).Where("c.id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFound("contract", id)
		}

		q := tx.NewUpdate().Model((*contractRow)(nil)).Where("c.id = ?", id)
		columns := 0
		if patch.BrokerID != nil {
			q = q.Set("broker_id = ?", nullable(*patch.BrokerID))
			columns++
		}
		if patch.StartDate != nil {
			q = q.Set("start_date = ?", *patch.StartDate)
			columns++
		}
		if patch.EndDate != nil {
			q = q.Set("end_date = ?", nullable(*patch.EndDate))
			columns++
		}
		if patch.RentAmount != nil {
			q = q.Set("rent_amount = ?", *patch.RentAmount)
			columns++
		}
		if patch.DueDay != nil {
			q = q.Set("due_day = ?", *patch.DueDay)
			columns++
		}
		if columns > 0 {
			if _, err := q.Exec(ctx); err != nil {
				return err
			}
		}

		if patch.SecurityDeposit != nil || patch.Complement != nil {
			return r.upsertGuarantee(ctx, tx, id, patch)
		}
		return nil
	})
	if err != nil {
		return nil, errs.FromStore(err, "contract", id)
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

// upsertGuarantee updates the contract's guarantee row in place, or inserts
// one when none exists. Only the fields present in the patch change.
func (r *Contracts) upsertGuarantee(ctx context.Context, tx bun.Tx, contractID string, patch domain.ContractPatch) error {
	var existing guaranteeRow
	err := tx.NewSelect().Model(&existing).Where("g.contract_id = ?", contractID).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		g := guaranteeRow{
			ID:              r.generateID("guarantee"),
			ContractID:      contractID,
			SecurityDeposit: patch.SecurityDeposit,
			Complement:      patch.Complement,
		}
		_, err := tx.NewInsert().Model(&g).Exec(ctx)
		return err
	case err != nil:
		return err
	}

	q := tx.NewUpdate().Model((*guaranteeRow)(nil)).Where("g.contract_id = ?", contractID)
	if patch.SecurityDeposit != nil {
		q = q.Set("security_deposit = ?", *patch.SecurityDeposit)
	}
	if patch.Complement != nil {
		q = q.Set("complement = ?", nullable(*patch.Complement))
	}
	_, err = q.Exec(ctx)
	return err
}

// Delete flips the linked property back to available and removes the
// contract; the schema's cascades drop the guarantee and any financial
// records tied to the contract. Deleting a missing id is a no-op.
func (r *Contracts) Delete(ctx context.Context, id string) error {
	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var row contractRow
		if err := tx.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}

		if err := setPropertyStatus(ctx, tx, row.PropertyID, "available"); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*contractRow)(nil)).Where("c.id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return errs.FromStore(err, "contract", id)
	}

	r.invalidateEntityCache(ctx)
	r.properties.invalidateEntityCache(ctx)
	r.financial.invalidateEntityCache(ctx)
	return nil
}

func contractFromRow(row contractRow, guarantee *guaranteeRow) domain.Contract {
	c := domain.Contract{
		ID:         row.ID,
		PropertyID: row.PropertyID,
		TenantID:   row.TenantID,
		BrokerID:   deref(row.BrokerID),
		StartDate:  row.StartDate,
		EndDate:    deref(row.EndDate),
		RentAmount: row.RentAmount,
		DueDay:     row.DueDay,
		CreatedAt:  row.CreatedAt,
	}
	if guarantee != nil {
		c.SecurityDeposit = guarantee.SecurityDeposit
		c.Complement = deref(guarantee.Complement)
	}
	return c
}
