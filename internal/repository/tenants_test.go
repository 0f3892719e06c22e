package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/errs"
)

func TestTenantsCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.tenants.Create(ctx, domain.Tenant{
		Name:  "Pedro Lima",
		Email: "pedro@example.com",
		Phone: "11 98888-7777",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	found, err := f.tenants.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Pedro Lima", found.Name)

	updated, err := f.tenants.Update(ctx, created.ID, domain.TenantPatch{Phone: strPtr("11 90000-0000")})
	require.NoError(t, err)
	assert.Equal(t, "11 90000-0000", updated.Phone)
	assert.Equal(t, "pedro@example.com", updated.Email)

	require.NoError(t, f.tenants.Delete(ctx, created.ID))
	gone, err := f.tenants.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTenantsValidationAndNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tenants.Create(ctx, domain.Tenant{})
	assert.True(t, errs.IsValidation(err))

	_, err = f.tenants.Update(ctx, "tenant-missing", domain.TenantPatch{Name: strPtr("x")})
	assert.True(t, errs.IsNotFound(err))

	found, err := f.tenants.FindByID(ctx, "tenant-missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}
