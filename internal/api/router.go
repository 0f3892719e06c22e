// Package api exposes the repositories over a JSON REST surface mounted
// under /api/v1.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/repository"
)

// Deps carries everything the router mounts.
type Deps struct {
	Log        *zap.Logger
	Cache      cache.Service
	Owners     *repository.Owners
	Properties *repository.Properties
	Tenants    *repository.Tenants
	Brokers    *repository.Brokers
	Contracts  *repository.Contracts
	Financial  *repository.Financial
	Users      *repository.Users
}

// NewRouter builds the chi router with the full route table.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(d.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/owners", newResource[domain.Owner, domain.OwnerPatch]("owner", d.Owners, d.Log).mount)
		r.Route("/properties", newResource[domain.Property, domain.PropertyPatch]("property", d.Properties, d.Log).mount)
		r.Route("/tenants", newResource[domain.Tenant, domain.TenantPatch]("tenant", d.Tenants, d.Log).mount)
		r.Route("/brokers", newResource[domain.Broker, domain.BrokerPatch]("broker", d.Brokers, d.Log).mount)
		r.Route("/contracts", newResource[domain.Contract, domain.ContractPatch]("contract", d.Contracts, d.Log).mount)

		r.Route("/financial-records", func(r chi.Router) {
			fh := &financialHandler{repo: d.Financial, log: d.Log}
			fh.mount(r)
			newResource[domain.FinancialRecord, domain.FinancialRecordPatch]("financial record", d.Financial, d.Log).mount(r)
		})

		r.Route("/users", func(r chi.Router) {
			uh := &usersHandler{repo: d.Users, log: d.Log}
			r.Post("/login", uh.login)
			newResource[domain.User, domain.UserPatch]("user", d.Users, d.Log).mount(r)
		})

		if d.Cache != nil {
			r.Route("/cache", func(r chi.Router) {
				ch := &cacheHandler{cache: d.Cache, log: d.Log}
				r.Get("/stats", ch.stats)
				r.Post("/clear", ch.clear)
			})
		}
	})

	return r
}
