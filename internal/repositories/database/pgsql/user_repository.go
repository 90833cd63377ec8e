package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portsrepo "github.com/jobfin/finance_approval_app/internal/core/ports/repositories"
	"github.com/jobfin/finance_approval_app/internal/models"
	"github.com/jobfin/finance_approval_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for finance actors.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `
	user_id, name, email, password_hash, is_active,
	invoice_approve_limit, credit_note_approve_limit, purchase_order_approve_limit,
	can_manage_locked,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanUser(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.IsActive,
		&m.InvoiceApproveLimit,
		&m.CreditNoteApproveLimit,
		&m.PurchaseOrderApproveLimit,
		&m.CanManageLocked,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) findUserLocationIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT location_id FROM user_locations WHERE user_id = $1 ORDER BY location_id;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query user locations", err)
	}
	defer rows.Close()

	var locationIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user location row", err)
		}
		locationIDs = append(locationIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading user location rows", err)
	}
	return locationIDs, nil
}

// FindUserByID retrieves a user with their location links.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1;
	`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID, err)
	}

	locationIDs, err := r.findUserLocationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	user := mapping.ToDomainUser(*m, locationIDs)
	return &user, nil
}

// FindUserByEmail retrieves a user by email for authentication.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1;
	`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by email", err)
	}

	locationIDs, err := r.findUserLocationIDs(ctx, m.UserID)
	if err != nil {
		return nil, err
	}
	user := mapping.ToDomainUser(*m, locationIDs)
	return &user, nil
}

// FindUsersByLocation retrieves all active users attached to the location.
func (r *PgxUserRepository) FindUsersByLocation(ctx context.Context, locationID string) ([]domain.User, error) {
	query := `
		SELECT u.user_id, u.name, u.email, u.password_hash, u.is_active,
		       u.invoice_approve_limit, u.credit_note_approve_limit, u.purchase_order_approve_limit,
		       u.can_manage_locked,
		       u.created_at, u.created_by, u.last_updated_at, u.last_updated_by
		FROM users u
		JOIN user_locations ul ON ul.user_id = u.user_id
		WHERE ul.location_id = $1 AND u.is_active
		ORDER BY u.name;
	`
	rows, err := r.Pool.Query(ctx, query, locationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users by location", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		// Location links are not re-queried per row; callers filtering by
		// location already know the attachment they asked for.
		users = append(users, mapping.ToDomainUser(*m, []string{locationID}))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading user rows", err)
	}
	return users, nil
}

// SaveUser inserts a new user and their location links.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, name, email, password_hash, is_active,
			invoice_approve_limit, credit_note_approve_limit, purchase_order_approve_limit,
			can_manage_locked,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.IsActive,
		m.InvoiceApproveLimit,
		m.CreditNoteApproveLimit,
		m.PurchaseOrderApproveLimit,
		m.CanManageLocked,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert user "+m.UserID, err)
	}

	if len(user.LocationIDs) > 0 {
		linkQuery := `INSERT INTO user_locations (user_id, location_id) VALUES ($1, $2);`
		batch := &pgx.Batch{}
		for _, locationID := range user.LocationIDs {
			batch.Queue(linkQuery, user.UserID, locationID)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range user.LocationIDs {
			if _, err := results.Exec(); err != nil {
				return apperrors.NewAppError(500, "failed to insert user location links", err)
			}
		}
	}
	return r.Commit(ctx, tx)
}
