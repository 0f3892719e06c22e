package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentfolio/rentfolio/cache"
	"github.com/rentfolio/rentfolio/internal/database"
	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/errs"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string `bun:"id,pk"`
	Name         string `bun:"name"`
	Email        string `bun:"email"`
	Role         string `bun:"role"`
	PasswordHash string `bun:"password_hash"`
	CreatedAt    string `bun:"created_at"`
}

// Users stores accounts with bcrypt-hashed passwords. The hash never leaves
// this package; returned users carry an empty Password field.
type Users struct {
	base
}

var _ Repository[domain.User, domain.UserPatch] = (*Users)(nil)

func NewUsers(m *database.Manager, c cache.Service) *Users {
	return &Users{base: newBase("users", m, c)}
}

func (r *Users) FindAll(ctx context.Context) ([]domain.User, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var rows []userRow
	if err := db.NewSelect().Model(&rows).Order("name ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = userFromRow(row)
	}
	return users, nil
}

func (r *Users) FindByID(ctx context.Context, id string) (*domain.User, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := db.NewSelect().Model(&row).Where("u.id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user := userFromRow(row)
	return &user, nil
}

// FindByEmail returns the user with the given email, or nil when absent.
func (r *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := db.NewSelect().Model(&row).Where("u.email = ?", email).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user := userFromRow(row)
	return &user, nil
}

func (r *Users) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, errs.Validation("invalid user", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Internal("hash password", err)
	}

	user.ID = r.generateID("user")
	user.CreatedAt = nowStamp()
	if user.Role == "" {
		user.Role = "user"
	}

	row := userRow{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		PasswordHash: string(hash),
		CreatedAt:    user.CreatedAt,
	}
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	if _, err := db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return nil, errs.FromStore(err, "user", user.ID)
	}

	r.invalidateEntityCache(ctx)
	user.Password = ""
	return &user, nil
}

func (r *Users) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}

	exists, err := db.NewSelect().Model((*userRow)(nil)).Where("u.id = ?", id).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NotFound("user", id)
	}

	q := db.NewUpdate().Model((*userRow)(nil)).Where("u.id = ?", id)
	columns := 0
	if patch.Name != nil {
		q = q.Set("name = ?", *patch.Name)
		columns++
	}
	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
		columns++
	}
	if patch.Role != nil {
		q = q.Set("role = ?", *patch.Role)
		columns++
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errs.Internal("hash password", err)
		}
		q = q.Set("password_hash = ?", string(hash))
		columns++
	}
	if columns > 0 {
		if _, err := q.Exec(ctx); err != nil {
			return nil, errs.FromStore(err, "user", id)
		}
	}

	r.invalidateEntityCache(ctx)
	return r.FindByID(ctx, id)
}

func (r *Users) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	if _, err := db.NewDelete().Model((*userRow)(nil)).Where("u.id = ?", id).Exec(ctx); err != nil {
		return errs.FromStore(err, "user", id)
	}
	r.invalidateEntityCache(ctx)
	return nil
}

// CheckPassword reports whether the password matches the stored hash for
// the given email. Absent users and wrong passwords are indistinguishable.
func (r *Users) CheckPassword(ctx context.Context, email, password string) (*domain.User, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := db.NewSelect().Model(&row).Where("u.email = ?", email).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.Validation("invalid credentials", nil)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, errs.Validation("invalid credentials", nil)
	}
	user := userFromRow(row)
	return &user, nil
}

func userFromRow(row userRow) domain.User {
	return domain.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}
}
