package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/errs"
)

func TestOwnersCreateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.owners.Create(ctx, domain.Owner{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		Address: &domain.Address{
			Street:  "Rua A",
			Number:  "12",
			City:    "Campinas",
			State:   "SP",
			ZipCode: "13000-000",
		},
		BankAccount: &domain.BankAccount{
			Bank:    "Banco do Brasil",
			Agency:  "1234",
			Account: "56789-0",
			PixKey:  "maria@example.com",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	found, err := f.owners.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Maria Souza", found.Name)
	require.NotNil(t, found.Address)
	assert.Equal(t, "Rua A", found.Address.Street)
	require.NotNil(t, found.BankAccount)
	assert.Equal(t, "Banco do Brasil", found.BankAccount.Bank)
}

func TestOwnersCreateWithoutDetails(t *testing.T) {
	f := newFixture(t)
	owner := f.createOwner(t, "João")

	found, err := f.owners.FindByID(context.Background(), owner.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.Address)
	assert.Nil(t, found.BankAccount)
}

func TestOwnersCreateValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.owners.Create(context.Background(), domain.Owner{Email: "a@b.com"})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestOwnersFindByIDMissing(t *testing.T) {
	f := newFixture(t)
	found, err := f.owners.FindByID(context.Background(), "owner-missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestOwnersFindAll(t *testing.T) {
	f := newFixture(t)
	f.createOwner(t, "A")
	f.createOwner(t, "B")

	owners, err := f.owners.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, owners, 2)
}

func TestOwnersPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.owners.Create(ctx, domain.Owner{
		Name:     "Maria",
		Document: "123.456.789-00",
		Phone:    "11 99999-0000",
	})
	require.NoError(t, err)

	updated, err := f.owners.Update(ctx, created.ID, domain.OwnerPatch{Name: strPtr("Maria Silva")})
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", updated.Name)
	assert.Equal(t, "123.456.789-00", updated.Document)
	assert.Equal(t, "11 99999-0000", updated.Phone)
}

func TestOwnersDetailUpsertsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Carlos")

	updated, err := f.owners.Update(ctx, owner.ID, domain.OwnerPatch{
		Address: &domain.Address{Street: "Rua B", City: "Santos"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Address)
	assert.Nil(t, updated.BankAccount)

	updated, err = f.owners.Update(ctx, owner.ID, domain.OwnerPatch{
		BankAccount: &domain.BankAccount{Bank: "Itaú"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Address, "address must survive a bank-only patch")
	assert.Equal(t, "Rua B", updated.Address.Street)
	require.NotNil(t, updated.BankAccount)

	// A second address patch replaces the existing detail row.
	updated, err = f.owners.Update(ctx, owner.ID, domain.OwnerPatch{
		Address: &domain.Address{Street: "Rua C", City: "Santos"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Rua C", updated.Address.Street)
}

func TestOwnersUpdateMissingIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.owners.Update(context.Background(), "owner-missing", domain.OwnerPatch{Name: strPtr("x")})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestOwnersDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Teresa")

	require.NoError(t, f.owners.Delete(ctx, owner.ID))
	found, err := f.owners.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, f.owners.Delete(ctx, owner.ID))
}
