package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/errs"
	"github.com/rentfolio/rentfolio/internal/repository"
)

// resource exposes one repository as a REST collection. T is the record
// payload, P the partial-update payload.
type resource[T any, P any] struct {
	name string
	repo repository.Repository[T, P]
	log  *zap.Logger
}

func newResource[T any, P any](name string, repo repository.Repository[T, P], log *zap.Logger) *resource[T, P] {
	return &resource[T, P]{name: name, repo: repo, log: log}
}

func (h *resource[T, P]) mount(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *resource[T, P]) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.FindAll(r.Context())
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *resource[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	if record == nil {
		writeError(h.log, w, errs.NotFound(h.name, id))
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *resource[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var payload T
	if err := decodeBody(r, &payload); err != nil {
		writeError(h.log, w, err)
		return
	}
	created, err := h.repo.Create(r.Context(), payload)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *resource[T, P]) update(w http.ResponseWriter, r *http.Request) {
	var patch P
	if err := decodeBody(r, &patch); err != nil {
		writeError(h.log, w, err)
		return
	}
	updated, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *resource[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// financialHandler adds the ledger's aggregate and pagination endpoints on
// top of the plain collection.
type financialHandler struct {
	repo *repository.Financial
	log  *zap.Logger
}

func (h *financialHandler) mount(r chi.Router) {
	r.Get("/categories", h.categories)
	r.Get("/summary", h.monthlySummary)
	r.Get("/month", h.byMonth)
	r.Get("/page", h.page)
	r.Get("/count", h.count)
}

func (h *financialHandler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.Categories(r.Context())
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func monthYearParams(r *http.Request) (int, int, error) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errs.Validation("month must be between 1 and 12", err)
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, errs.Validation("year must be a number", err)
	}
	return month, year, nil
}

func (h *financialHandler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYearParams(r)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	summary, err := h.repo.MonthlySummary(r.Context(), month, year)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *financialHandler) byMonth(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYearParams(r)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	records, err := h.repo.FindByMonth(r.Context(), month, year)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *financialHandler) page(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	records, err := h.repo.FindPaginated(r.Context(), offset, limit)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *financialHandler) count(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.Count(r.Context())
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// usersHandler adds login on top of the user collection.
type usersHandler struct {
	repo *repository.Users
	log  *zap.Logger
}

func (h *usersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(h.log, w, err)
		return
	}
	user, err := h.repo.CheckPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// cacheHandler exposes cache stats and a full flush.
type cacheHandler struct {
	cache cache.Service
	log   *zap.Logger
}

func (h *cacheHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()
	out := make(map[string]cache.TierStats, len(stats))
	for tier, s := range stats {
		out[tier.String()] = s
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *cacheHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.cache.ClearAll(r.Context())
	writeJSON(w, http.StatusNoContent, nil)
}
