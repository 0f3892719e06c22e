// Package domain holds the flat, JSON-serializable records exchanged with
// the layers above the repositories, the typed partial-update structs, and
// the fixed code↔label enumeration maps.
package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Address is the optional 1:1 address detail of an owner.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	ZipCode    string `json:"zipCode,omitempty"`
}

// BankAccount is the optional 1:1 bank detail of an owner.
type BankAccount struct {
	Bank        string `json:"bank"`
	Agency      string `json:"agency,omitempty"`
	Account     string `json:"account,omitempty"`
	AccountType string `json:"accountType,omitempty"`
	PixKey      string `json:"pixKey,omitempty"`
}

// Owner is a property owner. Address and BankAccount are independently
// optional and independently upsertable.
type Owner struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Document    string       `json:"document,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	BankAccount *BankAccount `json:"bankAccount,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty"`
}

func (o Owner) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Name, validation.Required),
		validation.Field(&o.Email, is.Email),
	)
}

// OwnerPatch is a partial update: only non-nil fields are applied. A non-nil
// Address or BankAccount upserts the whole detail row.
type OwnerPatch struct {
	Name        *string      `json:"name,omitempty"`
	Document    *string      `json:"document,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	BankAccount *BankAccount `json:"bankAccount,omitempty"`
}

// Property is a rentable unit. Type and Status carry domain display labels
// ("Casa", "Disponível"); the stored codes never leave the repository.
type Property struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"ownerId"`
	Address   string  `json:"address"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	RentValue float64 `json:"rentValue"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func (p Property) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.OwnerID, validation.Required),
		validation.Field(&p.Address, validation.Required),
		validation.Field(&p.RentValue, validation.Min(0.0)),
	)
}

type PropertyPatch struct {
	OwnerID   *string  `json:"ownerId,omitempty"`
	Address   *string  `json:"address,omitempty"`
	City      *string  `json:"city,omitempty"`
	State     *string  `json:"state,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Status    *string  `json:"status,omitempty"`
	RentValue *float64 `json:"rentValue,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// Tenant rents properties through contracts.
type Tenant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (t Tenant) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Email, is.Email),
	)
}

type TenantPatch struct {
	Name     *string `json:"name,omitempty"`
	Document *string `json:"document,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// Broker intermediates contracts. CommissionRate defaults to 5.0 when the
// create payload leaves it zero.
type Broker struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Document       string  `json:"document,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	CRECI          string  `json:"creci,omitempty"`
	CommissionRate float64 `json:"commissionRate"`
	CreatedAt      string  `json:"createdAt,omitempty"`
}

func (b Broker) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required),
		validation.Field(&b.CommissionRate, validation.Min(0.0), validation.Max(100.0)),
	)
}

type BrokerPatch struct {
	Name           *string  `json:"name,omitempty"`
	Document       *string  `json:"document,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	CRECI          *string  `json:"creci,omitempty"`
	CommissionRate *float64 `json:"commissionRate,omitempty"`
}

// Contract links a property to a tenant, optionally through a broker.
// SecurityDeposit and Complement are the flattened 1:1 guarantee detail; a
// contract has at most one guarantee row.
type Contract struct {
	ID              string   `json:"id"`
	PropertyID      string   `json:"propertyId"`
	TenantID        string   `json:"tenantId"`
	BrokerID        string   `json:"brokerId,omitempty"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate,omitempty"`
	RentAmount      float64  `json:"rentAmount"`
	DueDay          int      `json:"dueDay"`
	SecurityDeposit *float64 `json:"securityDeposit,omitempty"`
	Complement      string   `json:"complement,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}

func (c Contract) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PropertyID, validation.Required),
		validation.Field(&c.TenantID, validation.Required),
		validation.Field(&c.StartDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&c.EndDate, validation.Date("2006-01-02")),
		validation.Field(&c.RentAmount, validation.Required, validation.Min(0.0)),
		validation.Field(&c.DueDay, validation.Min(1), validation.Max(31)),
	)
}

// ContractPatch updates contract fields and/or upserts the guarantee. The
// guarantee upsert is independent: a patch carrying only SecurityDeposit
// inserts or updates the guarantee row without touching contract columns.
type ContractPatch struct {
	BrokerID        *string  `json:"brokerId,omitempty"`
	StartDate       *string  `json:"startDate,omitempty"`
	EndDate         *string  `json:"endDate,omitempty"`
	RentAmount      *float64 `json:"rentAmount,omitempty"`
	DueDay          *int     `json:"dueDay,omitempty"`
	SecurityDeposit *float64 `json:"securityDeposit,omitempty"`
	Complement      *string  `json:"complement,omitempty"`
}

// HasGuarantee reports whether the create payload carries guarantee detail.
func (c Contract) HasGuarantee() bool {
	return c.SecurityDeposit != nil || c.Complement != ""
}

// FinancialRecord is a ledger entry. Category is the display name; the
// repository resolves (or silently creates) the matching category row for
// the record's type.
type FinancialRecord struct {
	ID          string  `json:"id"`
	ContractID  string  `json:"contractId,omitempty"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"dueDate"`
	PaidDate    string  `json:"paidDate,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

func (f FinancialRecord) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Type, validation.Required, validation.In(FinancialTypeIncome, FinancialTypeExpense)),
		validation.Field(&f.Amount, validation.Required),
		validation.Field(&f.DueDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&f.PaidDate, validation.Date("2006-01-02")),
	)
}

type FinancialRecordPatch struct {
	ContractID  *string  `json:"contractId,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	DueDate     *string  `json:"dueDate,omitempty"`
	PaidDate    *string  `json:"paidDate,omitempty"`
}

// FinancialCategory is a lookup row; creation is implicit and idempotent by
// (name, type).
type FinancialCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// MonthlySummaryRow is one (type, status, category) bucket of a monthly
// summary: the summed amount and record count of the bucket.
type MonthlySummaryRow struct {
	Type     string  `json:"type"`
	Status   string  `json:"status"`
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// User is an application account. Password is input-only; repositories
// store a bcrypt hash and never return either form.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Password  string `json:"password,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required),
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.Password, validation.Required, validation.Length(6, 0)),
	)
}

type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}
