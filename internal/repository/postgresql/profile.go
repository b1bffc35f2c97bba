package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/database"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const profileColumns = `id, email, full_name, role, department, password_hash, created_at, updated_at`

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) user.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func scanProfile(row pgx.Row) (user.Profile, error) {
	var p user.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Role,
		&p.Department,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// GetByID implements user.ProfileRepository.
func (r *profileRepositoryImpl) GetByID(ctx context.Context, id string) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanProfile(q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, user.ErrProfileNotFound
		}
		return user.Profile{}, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return p, nil
}

// GetByEmail implements user.ProfileRepository.
func (r *profileRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanProfile(q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, user.ErrProfileNotFound
		}
		return user.Profile{}, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return p, nil
}

// Create implements user.ProfileRepository.
func (r *profileRepositoryImpl) Create(ctx context.Context, profile user.Profile) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (id, email, full_name, role, department, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + profileColumns

	created, err := scanProfile(q.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.Role,
		profile.Department,
		profile.PasswordHash,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user.Profile{}, user.ErrProfileEmailExists
		}
		return user.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}
