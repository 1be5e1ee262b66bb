package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste el usuario y sus roles en una sola sentencia.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		WITH u AS (
			INSERT INTO users (id, username, email, password_hash, nombre, apellido, enabled, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		)
		INSERT INTO user_roles (user_id, role)
		SELECT u.id, role FROM u, unnest($10::text[]) AS role`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		nullIfEmpty(user.Nombre), nullIfEmpty(user.Apellido), user.Enabled,
		user.CreatedAt, user.UpdatedAt, user.RoleNames(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(constraintName(err), "email") {
				return fmt.Errorf("%w: %w", domain.ErrConflict, domain.ErrEmailAlreadyExists)
			}
			return domain.NewConflict("usuario", "username", user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername obtiene un usuario con sus roles.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash,
		       COALESCE(u.nombre, ''), COALESCE(u.apellido, ''), u.enabled,
		       u.created_at, u.updated_at,
		       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles r ON r.user_id = u.id
		WHERE u.username = $1
		GROUP BY u.id`
	var (
		u     entity.User
		roles []string
	)
	err := r.q.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Nombre, &u.Apellido, &u.Enabled,
		&u.CreatedAt, &u.UpdatedAt, &roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("usuario", "username", username)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	for _, name := range roles {
		role, err := entity.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", username, err)
		}
		u.Roles = append(u.Roles, role)
	}
	return &u, nil
}

// ExistsByUsername indica si el username ya está registrado.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail indica si el email ya está registrado.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
}

func (r *UserRepo) exists(ctx context.Context, query, arg string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return ok, nil
}
