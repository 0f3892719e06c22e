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

type ownerRow struct {
	bun.BaseModel `bun:"table:owners,alias:o"`

	ID        string `bun:"id,pk"`
	Name      string `bun:"name"`
	Document  string `bun:"document"`
	Email     string `bun:"email"`
	Phone     string `bun:"phone"`
	CreatedAt string `bun:"created_at"`
}

type ownerAddressRow struct {
	bun.BaseModel `bun:"table:owner_addresses,alias:oa"`

	OwnerID    string `bun:"owner_id,pk"`
	Street     string `bun:"street"`
	Number     string `bun:"number"`
	Complement string `bun:"complement"`
	District   string `bun:"district"`
	City       string `bun:"city"`
	State      string `bun:"state"`
	ZipCode    string `bun:"zip_code"`
}

type ownerBankAccountRow struct {
	bun.BaseModel `bun:"table:owner_bank_accounts,alias:ob"`

	OwnerID     string `bun:"owner_id,pk"`
	Bank        string `bun:"bank"`
	Agency      string `bun:"agency"`
	Account     string `bun:"account"`
	AccountType string `bun:"account_type"`
	PixKey      string `bun:"pix_key"`
}

// Owners maps owner records onto the owners table plus the optional 1:1
// address and bank account detail rows.
type Owners struct {
	base
}

var _ Repository[domain.Owner, domain.OwnerPatch] = (*Owners)(nil)

func NewOwners(m *database.Manager, c cache.Service) *Owners {
	return &Owners{base: newBase("owners", m, c)}
}

func (r *Owners) FindAll(ctx context.Context) ([]domain.Owner, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var rows []ownerRow
	if err := db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	var addresses []ownerAddressRow
	if err := db.NewSelect().Model(&addresses).Scan(ctx); err != nil {
		return nil, err
	}
	var accounts []ownerBankAccountRow
	if err := db.NewSelect().Model(&accounts).Scan(ctx); err != nil {
		return nil, err
	}

	addressByOwner := make(map[string]*domain.Address, len(addresses))
	for i := range addresses {
		addressByOwner[addresses[i].OwnerID] = addressFromRow(addresses[i])
	}
	accountByOwner := make(map[string]*domain.BankAccount, len(accounts))
	for i := range accounts {
		accountByOwner[accounts[i].OwnerID] = bankAccountFromRow(accounts[i])
	}

	owners := make([]domain.Owner, len(rows))
	for i, row := range rows {
		owners[i] = ownerFromRow(row, addressByOwner[row.ID], accountByOwner[row.ID])
	}
	return owners, nil
}

func (r *Owners) FindByID(ctx context.Context, id string) (*domain.Owner, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	var row ownerRow
	if err := db.NewSelect().Model(&row).Where("o.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var address *domain.Address
	var addrRow ownerAddressRow
	switch err := db.NewSelect().Model(&addrRow).Where("oa.owner_id = ?", id).Scan(ctx); {
	case err == nil:
		address = addressFromRow(addrRow)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	var account *domain.BankAccount
	var bankRow ownerBankAccountRow
	switch err := db.NewSelect().Model(&bankRow).Where("ob.owner_id = ?", id).Scan(ctx); {
	case err == nil:
		account = bankAccountFromRow(bankRow)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	owner := ownerFromRow(row, address, account)
	return &owner, nil
}

func (r *Owners) Create(ctx context.Context, record domain.Owner) (*domain.Owner, error) {
	if err := record.Validate(); err != nil {
		return nil, errs.Validation("invalid owner", err)
	}

	record.ID = r.generateID("owner")
	record.CreatedAt = nowStamp()

	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		row := ownerRow{
			ID:        record.ID,
			Name:      record.Name,
			Document:  record.Document,
			Email:     record.Email,
			Phone:     record.Phone,
			CreatedAt: record.CreatedAt,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return err
		}
		if record.Address != nil {
			if _, err := tx.NewInsert().Model(addressToRow(record.ID, record.Address)).Exec(ctx); err != nil {
				return err
			}
		}
		if record.BankAccount != nil {
			if _, err := tx.NewInsert().Model(bankAccountToRow(record.ID, record.BankAccount)).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.FromStore(err, "owner", record.ID)
	}

	r.invalidateEntityCache(ctx)
	return &record, nil
}

func (r *Owners) Update(ctx context.Context, id string, patch domain.OwnerPatch) (*domain.Owner, error) {
	err := r.transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*ownerRow)(nil)).Where("o.id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFound("owner", id)
		}

		q := tx.NewUpdate().Model((*ownerRow)(nil)).Where("o.id = ?", id)
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
				return err
			}
		}

		// Address and bank account are independently upsertable.
		if patch.Address != nil {
			if err := upsertOwnerDetail(ctx, tx, addressToRow(id, patch.Address),
				"street", "number", "complement", "district", "city", "state", "zip_code"); err != nil {
				return err
			}
		}
		if patch.BankAccount != nil {
			if err := upsertOwnerDetail(ctx, tx, bankAccountToRow(id, patch.BankAccount),
				"bank", "agency", "account", "account_type", "pix_key"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.FromStore(err, "owner", id)
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

func (r *Owners) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*ownerRow)(nil)).Where("o.id = ?", id).Exec(ctx); err != nil {
		return errs.FromStore(err, "owner", id)
	}
	r.invalidateEntityCache(ctx)
	return nil
}

// upsertOwnerDetail inserts a 1:1 detail row keyed by owner_id, replacing
// the listed columns when the row already exists.
func upsertOwnerDetail(ctx context.Context, tx bun.Tx, model any, columns ...string) error {
	q := tx.NewInsert().Model(model).On("CONFLICT (owner_id) DO UPDATE")
	for _, col := range columns {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	_, err := q.Exec(ctx)
	return err
}

func ownerFromRow(row ownerRow, address *domain.Address, account *domain.BankAccount) domain.Owner {
	return domain.Owner{
		ID:          row.ID,
		Name:        row.Name,
		Document:    row.Document,
		Email:       row.Email,
		Phone:       row.Phone,
		Address:     address,
		BankAccount: account,
		CreatedAt:   row.CreatedAt,
	}
}

func addressFromRow(row ownerAddressRow) *domain.Address {
	return &domain.Address{
		Street:     row.Street,
		Number:     row.Number,
		Complement: row.Complement,
		District:   row.District,
		City:       row.City,
		State:      row.State,
		ZipCode:    row.ZipCode,
	}
}

func addressToRow(ownerID string, a *domain.Address) *ownerAddressRow {
	return &ownerAddressRow{
		OwnerID:    ownerID,
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		ZipCode:    a.ZipCode,
	}
}

func bankAccountFromRow(row ownerBankAccountRow) *domain.BankAccount {
	return &domain.BankAccount{
		Bank:        row.Bank,
		Agency:      row.Agency,
		Account:     row.Account,
		AccountType: row.AccountType,
		PixKey:      row.PixKey,
	}
}

func bankAccountToRow(ownerID string, b *domain.BankAccount) *ownerBankAccountRow {
	return &ownerBankAccountRow{
		OwnerID:     ownerID,
		Bank:        b.Bank,
		Agency:      b.Agency,
		Account:     b.Account,
		AccountType: b.AccountType,
		PixKey:      b.PixKey,
	}
}
