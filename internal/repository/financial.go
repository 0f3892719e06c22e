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

type financialRow struct {
	bun.BaseModel `bun:"table:financial_records,alias:f"`

	ID          string  `bun:"id,pk"`
	ContractID  *string `bun:"contract_id"`
	CategoryID  string  `bun:"category_id"`
	TypeCode    string  `bun:"type_code"`
	StatusCode  string  `bun:"status_code"`
	Description string  `bun:"description"`
	Amount      float64 `bun:"amount"`
	DueDate     string  `bun:"due_date"`
	PaidDate    *string `bun:"paid_date"`
	CreatedAt   string  `bun:"created_at"`

	// Joined from financial_categories on reads.
	CategoryName string `bun:"category_name,scanonly"`
}

type categoryRow struct {
	bun.BaseModel `bun:"table:financial_categories,alias:fc"`

	ID       string `bun:"id,pk"`
	Name     string `bun:"name"`
	TypeCode string `bun:"type_code"`
}

type summaryRow struct {
	TypeCode   string  `bun:"type_code"`
	StatusCode string  `bun:"status_code"`
	Category   string  `bun:"category"`
	Total      float64 `bun:"total"`
	Count      int     `bun:"count"`
}

// Financial is the ledger repository and the only one layering the tiered
// cache over its reads: the full listing sits in the query tier, monthly
// summaries in the aggregation tier and categories in the static tier.
// Every successful write invalidates the whole financial_records namespace
// before returning.
type Financial struct {
	base
}

var _ Repository[domain.FinancialRecord, domain.FinancialRecordPatch] = (*Financial)(nil)

func NewFinancial(m *database.Manager, c cache.Service) *Financial {
	return &Financial{base: newBase("financial_records", m, c)}
}

func (r *Financial) selectRecords(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		Model((*financialRow)(nil)).
		ColumnExpr("f.*").
		ColumnExpr("fc.name AS category_name").
		Join("JOIN financial_categories AS fc ON fc.id = f.category_id")
}

// FindAll returns every record, cached in the query tier.
func (r *Financial) FindAll(ctx context.Context) ([]domain.FinancialRecord, error) {
	fetch := func(ctx context.Context) ([]domain.FinancialRecord, error) {
		return r.loadAll(ctx)
	}
	if !r.cacheEnabled {
		return fetch(ctx)
	}
	key := cache.BuildKey(r.table, "findAll", nil)
	return cache.GetOrFetch(ctx, r.cache, cache.TierQuery, key, 0, fetch)
}

func (r *Financial) loadAll(ctx context.Context) ([]domain.FinancialRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []financialRow
	if err := r.selectRecords(db).Order("due_date ASC", "id ASC").Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return financialRecordsFromRows(rows)
}

func (r *Financial) FindByID(ctx context.Context, id string) (*domain.FinancialRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var row financialRow
	if err := r.selectRecords(db).Where("f.id = ?", id).Scan(ctx, &row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	record, err := financialRecordFromRow(row)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByMonth returns the records whose due date falls in the given
// calendar month. Matching is by date components, not a range; a record due
// on the 1st and another due on the 31st are both in the month regardless
// of any time-of-day or zone concern. Uncached.
func (r *Financial) FindByMonth(ctx context.Context, month, year int) ([]domain.FinancialRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []financialRow
	err = r.selectRecords(db).
		Where("CAST(strftime('%m', f.due_date) AS INTEGER) = ?", month).
		Where("CAST(strftime('%Y', f.due_date) AS INTEGER) = ?", year).
		Order("due_date ASC", "id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return financialRecordsFromRows(rows)
}

// FindPaginated returns one page of records ordered by due date. Uncached.
func (r *Financial) FindPaginated(ctx context.Context, offset, limit int) ([]domain.FinancialRecord, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []financialRow
	err = r.selectRecords(db).
		Order("due_date ASC", "id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return financialRecordsFromRows(rows)
}

// Count returns the total number of financial records. Uncached.
func (r *Financial) Count(ctx context.Context) (int, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	return db.NewSelect().Model((*financialRow)(nil)).Count(ctx)
}

// Categories returns every category, cached in the static tier.
func (r *Financial) Categories(ctx context.Context) ([]domain.FinancialCategory, error) {
	fetch := func(ctx context.Context) ([]domain.FinancialCategory, error) {
		return r.loadCategories(ctx)
	}
	if !r.cacheEnabled {
		return fetch(ctx)
	}
	key := cache.BuildKey(r.table, "categories", nil)
	return cache.GetOrFetch(ctx, r.cache, cache.TierStatic, key, 0, fetch)
}

func (r *Financial) loadCategories(ctx context.Context) ([]domain.FinancialCategory, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []categoryRow
	if err := db.NewSelect().Model(&rows).Order("name ASC", "type_code ASC").Scan(ctx); err != nil {
		return nil, err
	}

	categories := make([]domain.FinancialCategory, len(rows))
	for i, row := range rows {
		label, err := domain.FinancialTypeLabel(row.TypeCode)
		if err != nil {
			return nil, errs.Internal("corrupt category row", err)
		}
		categories[i] = domain.FinancialCategory{ID: row.ID, Name: row.Name, Type: label}
	}
	return categories, nil
}

// MonthlySummary returns grouped sums of amount by (type, status, category)
// for the given calendar month, cached in the aggregation tier keyed by
// month and year.
func (r *Financial) MonthlySummary(ctx context.Context, month, year int) ([]domain.MonthlySummaryRow, error) {
	fetch := func(ctx context.Context) ([]domain.MonthlySummaryRow, error) {
		return r.computeMonthlySummary(ctx, month, year)
	}
	if !r.cacheEnabled {
		return fetch(ctx)
	}
	key := cache.BuildKey(r.table, "monthly_summary", map[string]any{"month": month, "year": year})
	return cache.GetOrFetch(ctx, r.cache, cache.TierAggregation, key, 0, fetch)
}

func (r *Financial) computeMonthlySummary(ctx context.Context, month, year int) ([]domain.MonthlySummaryRow, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var rows []summaryRow
	err = db.NewSelect().
		TableExpr("financial_records AS f").
		ColumnExpr("f.type_code").
		ColumnExpr("f.status_code").
		ColumnExpr("fc.name AS category").
		ColumnExpr("SUM(f.amount) AS total").
		ColumnExpr("COUNT(*) AS count").
		Join("JOIN financial_categories AS fc ON fc.id = f.category_id").
		Where("CAST(strftime('%m', f.due_date) AS INTEGER) = ?", month).
		Where("CAST(strftime('%Y', f.due_date) AS INTEGER) = ?", year).
		GroupExpr("f.type_code, f.status_code, fc.name").
		OrderExpr("f.type_code, f.status_code, fc.name").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	summary := make([]domain.MonthlySummaryRow, len(rows))
	for i, row := range rows {
		typeLabel, err := domain.FinancialTypeLabel(row.TypeCode)
		if err != nil {
			return nil, errs.Internal("corrupt financial row", err)
		}
		statusLabel, err := domain.FinancialStatusLabel(row.StatusCode)
		if err != nil {
			return nil, errs.Internal("corrupt financial row", err)
		}
		summary[i] = domain.MonthlySummaryRow{
			Type:     typeLabel,
			Status:   statusLabel,
			Category: row.Category,
			Total:    row.Total,
			Count:    row.Count,
		}
	}
	return summary, nil
}

func (r *Financial) Create(ctx context.Context, record domain.FinancialRecord) (*domain.FinancialRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, errs.Validation("invalid financial record", err)
	}

	typeCode, err := domain.FinancialTypeCode(record.Type)
	if err != nil {
		return nil, errs.Validation("invalid financial record", err)
	}
	if record.Status == "" {
		record.Status = domain.FinancialStatusPending
	}
	statusCode, err := domain.FinancialStatusCode(record.Status)
	if err != nil {
		return nil, errs.Validation("invalid financial record", err)
	}
	if record.Category == "" {
		record.Category = domain.DefaultCategoryName
	}

	record.ID = r.generateID("financial")
	record.CreatedAt = nowStamp()

	err = r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		categoryID, err := r.ensureCategoryTx(ctx, tx, record.Category, typeCode)
		if err != nil {
			return err
		}
		row := financialRow{
			ID:          record.ID,
			ContractID:  nullable(record.ContractID),
			CategoryID:  categoryID,
			TypeCode:    typeCode,
			StatusCode:  statusCode,
			Description: record.Description,
			Amount:      record.Amount,
			DueDate:     record.DueDate,
			PaidDate:    nullable(record.PaidDate),
			CreatedAt:   record.CreatedAt,
		}
		_, err = tx.NewInsert().Model(&row).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, errs.FromStore(err, "financial record", record.ID)
	}

	r.invalidateEntityCache(ctx)
	return &record, nil
}

func (r *Financial) Update(ctx context.Context, id string, patch domain.FinancialRecordPatch) (*domain.FinancialRecord, error) {
	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current financialRow
		if err := tx.NewSelect().Model(&current).Where("f.id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.NotFound("financial record", id)
			}
			return err
		}

		q := tx.NewUpdate().Model((*financialRow)(nil)).Where("f.id = ?", id)
		columns := 0

		typeCode := current.TypeCode
		if patch.Type != nil {
			code, err := domain.FinancialTypeCode(*patch.Type)
			if err != nil {
				return errs.Validation("invalid financial record", err)
			}
			typeCode = code
			q = q.Set("type_code = ?", code)
			columns++
		}

		if patch.Category != nil {
			// Categories are keyed by (name, type), so resolving the new
			// category needs a type: the patch's if present, otherwise the
			// record's current one, otherwise income.
			lookupType := typeCode
			if lookupType == "" {
				lookupType = "income"
			}
			categoryID, err := r.ensureCategoryTx(ctx, tx, *patch.Category, lookupType)
			if err != nil {
				return err
			}
			q = q.Set("category_id = ?", categoryID)
			columns++
		}

		if patch.Status != nil {
			code, err := domain.FinancialStatusCode(*patch.Status)
			if err != nil {
				return errs.Validation("invalid financial record", err)
			}
			q = q.Set("status_code = ?", code)
			columns++
		}
		if patch.ContractID != nil {
			q = q.Set("contract_id = ?", nullable(*patch.ContractID))
			columns++
		}
		if patch.Description != nil {
			q = q.Set("description = ?", *patch.Description)
			columns++
		}
		if patch.Amount != nil {
			q = q.Set("amount = ?", *patch.Amount)
			columns++
		}
		if patch.DueDate != nil {
			q = q.Set("due_date = ?", *patch.DueDate)
			columns++
		}
		if patch.PaidDate != nil {
			q = q.Set("paid_date = ?", nullable(*patch.PaidDate))
			columns++
		}

		if columns == 0 {
			return nil
		}
		_, err := q.Exec(ctx)
		return err
	})
	if err != nil {
		return nil, errs.FromStore(err, "financial record", id)
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

func (r *Financial) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*financialRow)(nil)).Where("f.id = ?", id).Exec(ctx); err != nil {
		return errs.FromStore(err, "financial record", id)
	}
	r.invalidateEntityCache(ctx)
	return nil
}

// EnsureCategory resolves the category row for (name, type), creating it
// when absent. Creation is implicit and idempotent by name plus type; an
// unknown category name is never an error.
func (r *Financial) EnsureCategory(ctx context.Context, name, typeLabel string) (string, error) {
	typeCode, err := domain.FinancialTypeCode(typeLabel)
	if err != nil {
		return "", errs.Validation("invalid category type", err)
	}
	db, err := r.db()
	if err != nil {
		return "", err
	}
	id, err := r.ensureCategoryTx(ctx, db, name, typeCode)
	if err != nil {
		return "", err
	}
	r.invalidateEntityCache(ctx)
	return id, nil
}

func (r *Financial) ensureCategoryTx(ctx context.Context, db bun.IDB, name, typeCode string) (string, error) {
	var row categoryRow
	err := db.NewSelect().Model(&row).
		Where("fc.name = ?", name).
		Where("fc.type_code = ?", typeCode).
		Scan(ctx)
	if err == nil {
		return row.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	created := categoryRow{ID: r.generateID("category"), Name: name, TypeCode: typeCode}
	if _, err := db.NewInsert().Model(&created).
		On("CONFLICT (name, type_code) DO NOTHING").
		Exec(ctx); err != nil {
		return "", err
	}

	// Re-read to pick up the canonical id if a concurrent writer won.
	if err := db.NewSelect().Model(&row).
		Where("fc.name = ?", name).
		Where("fc.type_code = ?", typeCode).
		Scan(ctx); err != nil {
		return "", err
	}
	return row.ID, nil
}

func financialRecordsFromRows(rows []financialRow) ([]domain.FinancialRecord, error) {
	records := make([]domain.FinancialRecord, len(rows))
	for i, row := range rows {
		record, err := financialRecordFromRow(row)
		if err != nil {
			return nil, err
		}
		records[i] = record
	}
	return records, nil
}

func financialRecordFromRow(row financialRow) (domain.FinancialRecord, error) {
	typeLabel, err := domain.FinancialTypeLabel(row.TypeCode)
	if err != nil {
		return domain.FinancialRecord{}, errs.Internal("corrupt financial row", err)
	}
	statusLabel, err := domain.FinancialStatusLabel(row.StatusCode)
	if err != nil {
		return domain.FinancialRecord{}, errs.Internal("corrupt financial row", err)
	}
	return domain.FinancialRecord{
		ID:          row.ID,
		ContractID:  deref(row.ContractID),
		Category:    row.CategoryName,
		Type:        typeLabel,
		Status:      statusLabel,
		Description: row.Description,
		Amount:      row.Amount,
		DueDate:     row.DueDate,
		PaidDate:    deref(row.PaidDate),
		CreatedAt:   row.CreatedAt,
	}, nil
}
