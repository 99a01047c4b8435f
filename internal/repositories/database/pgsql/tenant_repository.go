package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesmatrix/accounting_backend/internal/apperrors"
	"github.com/salesmatrix/accounting_backend/internal/core/domain"
	portsrepo "github.com/salesmatrix/accounting_backend/internal/core/ports/repositories"
	"github.com/salesmatrix/accounting_backend/internal/models"
	"github.com/salesmatrix/accounting_backend/internal/utils/mapping"
)

const tenantColumns = `tenant_id, name, currency_code, tax_rate, tax_label, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant and membership data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTenantRepository implements portsrepo.TenantRepositoryFacade
var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

// SaveTenant inserts a new tenant row.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	modelTenant := mapping.ToModelTenant(tenant)
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelTenant.TenantID,
		modelTenant.Name,
		modelTenant.CurrencyCode,
		modelTenant.TaxRate,
		modelTenant.TaxLabel,
		modelTenant.IsActive,
		modelTenant.CreatedAt,
		modelTenant.CreatedBy,
		modelTenant.LastUpdatedAt,
		modelTenant.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert tenant "+modelTenant.TenantID, err)
	}
	return nil
}

// UpdateTenantLocale replaces the tenant's locale configuration.
func (r *PgxTenantRepository) UpdateTenantLocale(ctx context.Context, tenantID string, locale domain.TenantLocale, updatedBy string) error {
	query := `
		UPDATE tenants
		SET currency_code = $1, tax_rate = $2, tax_label = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		locale.CurrencyCode,
		locale.TaxRate,
		locale.TaxLabel,
		time.Now(),
		updatedBy,
		tenantID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update locale for tenant "+tenantID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveMembership inserts a membership row.
func (r *PgxTenantRepository) SaveMembership(ctx context.Context, membership domain.TenantMembership) error {
	modelMembership := mapping.ToModelTenantMembership(membership)
	query := `
		INSERT INTO tenant_memberships (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelMembership.UserID,
		modelMembership.TenantID,
		modelMembership.Role,
		modelMembership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert membership for user "+modelMembership.UserID, err)
	}
	return nil
}

// FindTenantByID retrieves a tenant, or apperrors.ErrNotFound.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1;`
	m, err := scanTenant(r.Pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find tenant "+tenantID, err)
	}
	tenant := mapping.ToDomainTenant(*m)
	return &tenant, nil
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var m models.Tenant
	err := row.Scan(
		&m.TenantID,
		&m.Name,
		&m.CurrencyCode,
		&m.TaxRate,
		&m.TaxLabel,
		&m.IsActive,
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

// FindMembership retrieves a user's membership in a tenant.
func (r *PgxTenantRepository) FindMembership(ctx context.Context, userID string, tenantID string) (*domain.TenantMembership, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM tenant_memberships
		WHERE user_id = $1 AND tenant_id = $2;
	`
	var m models.TenantMembership
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(
		&m.UserID,
		&m.TenantID,
		&m.Role,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}

	membership := mapping.ToDomainTenantMembership(m)
	return &membership, nil
}

// ListTenantsByUserID returns all tenants the user is a member of.
func (r *PgxTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	query := `
		SELECT t.tenant_id, t.name, t.currency_code, t.tax_rate, t.tax_label, t.is_active,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM tenants t
		JOIN tenant_memberships m ON m.tenant_id = t.tenant_id
		WHERE m.user_id = $1
		ORDER BY t.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list tenants for user "+userID, err)
	}
	defer rows.Close()

	modelTenants := []models.Tenant{}
	for rows.Next() {
		m, err := scanTenant(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tenant row", err)
		}
		modelTenants = append(modelTenants, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating tenant rows", err)
	}
	return mapping.ToDomainTenantSlice(modelTenants), nil
}

// ListMemberships returns all memberships of a tenant.
func (r *PgxTenantRepository) ListMemberships(ctx context.Context, tenantID string) ([]domain.TenantMembership, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM tenant_memberships
		WHERE tenant_id = $1
		ORDER BY joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list memberships for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelMemberships := []models.TenantMembership{}
	for rows.Next() {
		var m models.TenantMembership
		if err := rows.Scan(&m.UserID, &m.TenantID, &m.Role, &m.JoinedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		modelMemberships = append(modelMemberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return mapping.ToDomainTenantMembershipSlice(modelMemberships), nil
}
