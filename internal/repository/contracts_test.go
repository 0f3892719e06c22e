package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/errs"
)

func TestContractLifecycleFlipsPropertyStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)
	tenant := f.createTenant(t, "Inquilino")

	contract := f.createContract(t, property.ID, tenant.ID)

	rented, err := f.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusRented, rented.Status)

	require.NoError(t, f.contracts.Delete(ctx, contract.ID))

	available, err := f.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusAvailable, available.Status)

	gone, err := f.contracts.FindByID(ctx, contract.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Delete is a no-op the second time.
	require.NoError(t, f.contracts.Delete(ctx, contract.ID))
}

func TestContractCreateDefaultsDueDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)
	tenant := f.createTenant(t, "Inquilino")

	created, err := f.contracts.Create(ctx, domain.Contract{
		PropertyID: property.ID,
		TenantID:   tenant.ID,
		StartDate:  "2026-02-01",
		RentAmount: 1800,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.DueDay)
}

func TestContractCreateWithGuarantee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)
	tenant := f.createTenant(t, "Inquilino")

	created, err := f.contracts.Create(ctx, domain.Contract{
		PropertyID:      property.ID,
		TenantID:        tenant.ID,
		StartDate:       "2026-02-01",
		RentAmount:      1800,
		SecurityDeposit: f64Ptr(3600),
		Complement:      "caução em dinheiro",
	})
	require.NoError(t, err)

	found, err := f.contracts.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.SecurityDeposit)
	assert.Equal(t, 3600.0, *found.SecurityDeposit)
	assert.Equal(t, "caução em dinheiro", found.Complement)
}

func TestContractGuaranteeUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)
	tenant := f.createTenant(t, "Inquilino")
	contract := f.createContract(t, property.ID, tenant.ID)

	// First guarantee patch inserts the row.
	updated, err := f.contracts.Update(ctx, contract.ID, domain.ContractPatch{
		SecurityDeposit: f64Ptr(3000),
		Complement:      strPtr("fiador"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.SecurityDeposit)
	assert.Equal(t, 3000.0, *updated.SecurityDeposit)

	// A later deposit-only patch updates in place and keeps the complement.
	updated, err = f.contracts.Update(ctx, contract.ID, domain.ContractPatch{
		SecurityDeposit: f64Ptr(4500),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.SecurityDeposit)
	assert.Equal(t, 4500.0, *updated.SecurityDeposit)
	assert.Equal(t, "fiador", updated.Complement)
}

func TestContractPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)
	tenant := f.createTenant(t, "Inquilino")
	contract := f.createContract(t, property.ID, tenant.ID)

	updated, err := f.contracts.Update(ctx, contract.ID, domain.ContractPatch{
		RentAmount: f64Ptr(2750),
		DueDay:     intPtr(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 2750.0, updated.RentAmount)
	assert.Equal(t, 15, updated.DueDay)
	assert.Equal(t, "2026-01-01", updated.StartDate)
}

func TestContractUpdateMissingIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.contracts.Update(context.Background(), "contract-missing", domain.ContractPatch{
		DueDay: intPtr(1),
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestContractCreateValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.contracts.Create(context.Background(), domain.Contract{
		PropertyID: "p",
		TenantID:   "t",
		StartDate:  "01/02/2026",
		RentAmount: 100,
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err), "dates must be YYYY-MM-DD")
}
