package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/repository"
	"github.com/rentfolio/rentfolio/pkg/testsupport"
)

type fixture struct {
	cache      cache.Service
	owners     *repository.Owners
	properties *repository.Properties
	tenants    *repository.Tenants
	brokers    *repository.Brokers
	contracts  *repository.Contracts
	financial  *repository.Financial
	users      *repository.Users
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := testsupport.NewManager(t)
	c := testsupport.NewCache(t)
	return &fixture{
		cache:      c,
		owners:     repository.NewOwners(m, c),
		properties: repository.NewProperties(m, c),
		tenants:    repository.NewTenants(m, c),
		brokers:    repository.NewBrokers(m, c),
		contracts:  repository.NewContracts(m, c),
		financial:  repository.NewFinancial(m, c),
		users:      repository.NewUsers(m, c),
	}
}

func (f *fixture) createOwner(t *testing.T, name string) domain.Owner {
	t.Helper()
	owner, err := f.owners.Create(context.Background(), domain.Owner{Name: name})
	require.NoError(t, err)
	return *owner
}

func (f *fixture) createProperty(t *testing.T, ownerID string) domain.Property {
	t.Helper()
	property, err := f.properties.Create(context.Background(), domain.Property{
		OwnerID:   ownerID,
		Address:   "Rua das Flores, 100",
		City:      "São Paulo",
		State:     "SP",
		Type:      domain.PropertyTypeApartment,
		RentValue: 2500,
	})
	require.NoError(t, err)
	return *property
}

func (f *fixture) createTenant(t *testing.T, name string) domain.Tenant {
	t.Helper()
	tenant, err := f.tenants.Create(context.Background(), domain.Tenant{Name: name})
	require.NoError(t, err)
	return *tenant
}

func (f *fixture) createContract(t *testing.T, propertyID, tenantID string) domain.Contract {
	t.Helper()
	contract, err := f.contracts.Create(context.Background(), domain.Contract{
		PropertyID: propertyID,
		TenantID:   tenantID,
		StartDate:  "2026-01-01",
		RentAmount: 2500,
		DueDay:     10,
	})
	require.NoError(t, err)
	return *contract
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }
