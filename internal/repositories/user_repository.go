package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"niuniq/internal/entities"
	apperrors "niuniq/pkg/errors"
)

const userSelectFields = "u.id, u.email, u.no_telepon, u.role, u.password, u.has_created_store, u.created_at, u.updated_at"

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdatePhone(ctx context.Context, id uint64, phone string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	SetHasCreatedStore(ctx context.Context, tx pgx.Tx, id uint64, value bool) error
	Delete(ctx context.Context, id uint64) error
	RoleOf(ctx context.Context, id uint64) (string, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Email, &user.NoTelepon, &user.Role, &user.Password,
		&user.HasCreatedStore, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users AS u (email, no_telepon, role, password, has_created_store)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, userSelectFields)

	created, err := scanUser(r.storage.QueryRow(ctx, query,
		user.Email, user.NoTelepon, user.Role, user.Password, user.HasCreatedStore))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.id = $1`, userSelectFields)
	user, err := scanUser(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachStore(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.email = $1 LIMIT 1`, userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

// attachStore fills the first store the user owns, if any.
func (r *UserRepository) attachStore(ctx context.Context, user *entities.User) error {
	var ref entities.StoreRef
	err := r.storage.QueryRow(ctx,
		`SELECT id, name FROM stores WHERE user_id = $1 ORDER BY id LIMIT 1`, user.ID).Scan(&ref.ID, &ref.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load store of user %d: %w", user.ID, err)
	}
	user.Store = &ref
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update("users AS u").
		SetMap(map[string]interface{}{
			"email":             user.Email,
			"no_telepon":        user.NoTelepon,
			"role":              user.Role,
			"password":          user.Password,
			"has_created_store": user.HasCreatedStore,
			"updated_at":        sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"u.id": user.ID}).
		Suffix("RETURNING " + userSelectFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user update: %w", err)
	}

	updated, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if err := r.attachStore(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) UpdatePhone(ctx context.Context, id uint64, phone string) (*entities.User, error) {
	query := fmt.Sprintf(`
		UPDATE users AS u SET no_telepon = $1, updated_at = NOW()
		WHERE u.id = $2
		RETURNING %s`, userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, phone, id))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetHasCreatedStore(ctx context.Context, tx pgx.Tx, id uint64, value bool) error {
	result, err := pick(r.storage, tx).Exec(ctx,
		`UPDATE users SET has_created_store = $1, updated_at = NOW() WHERE id = $2`, value, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes the user. Stores and products go with it through the
// foreign keys.
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RoleOf(ctx context.Context, id uint64) (string, error) {
	var role string
	err := r.storage.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.ErrUserNotFound
	}
	return role, err
}
