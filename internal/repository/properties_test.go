package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/errs"
)

func TestPropertiesCreateDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")

	created, err := f.properties.Create(ctx, domain.Property{
		OwnerID: owner.ID,
		Address: "Av. Central, 50",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusAvailable, created.Status)
	assert.Equal(t, domain.PropertyTypeOther, created.Type)
}

func TestPropertiesLabelRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)

	found, err := f.properties.FindByID(ctx, property.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.PropertyTypeApartment, found.Type)
	assert.Equal(t, domain.PropertyStatusAvailable, found.Status)

	updated, err := f.properties.Update(ctx, property.ID, domain.PropertyPatch{
		Status: strPtr(domain.PropertyStatusMaintenance),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusMaintenance, updated.Status)
}

func TestPropertiesUnknownStatusRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")

	_, err := f.properties.Create(ctx, domain.Property{
		OwnerID: owner.ID,
		Address: "x",
		Status:  "Demolido",
	})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	property := f.createProperty(t, owner.ID)
	_, err = f.properties.Update(ctx, property.ID, domain.PropertyPatch{Status: strPtr("Demolido")})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestPropertiesUnknownTypeFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createOwner(t, "Dono")
	property := f.createProperty(t, owner.ID)

	updated, err := f.properties.Update(ctx, property.ID, domain.PropertyPatch{Type: strPtr("Castelo")})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyTypeOther, updated.Type)
}

func TestPropertiesCreateUnknownOwnerIsConflict(t *testing.T) {
	f := newFixture(t)
	_, err := f.properties.Create(context.Background(), domain.Property{
		OwnerID: "owner-missing",
		Address: "x",
	})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestPropertiesUpdateMissingIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.properties.Update(context.Background(), "prop-missing", domain.PropertyPatch{
		Address: strPtr("x"),
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
