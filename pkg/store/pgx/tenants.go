package pgx

import (
	"context"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/store"
)

const tenantColumns = `user_id, name, role, email_confirmed, last_sign_in_at`

const (
	selectTenantsSQL = `SELECT ` + tenantColumns + ` FROM tenants ORDER BY name, user_id`
	selectTenantSQL  = `SELECT ` + tenantColumns + ` FROM tenants WHERE user_id = $1`

	recordSignInSQL = `
		UPDATE tenants SET
			email_confirmed = $2,
			last_sign_in_at = GREATEST(COALESCE(last_sign_in_at, $3), $3),
			updated_at = now()
		WHERE user_id = $1
			AND (last_sign_in_at IS NULL OR last_sign_in_at < $3 OR email_confirmed <> $2)`
)

var _ store.TenantStorage = (*NodeStorage)(nil)

func scanTenant(row pgxv5.Row) (common.Tenant, error) {
	var t common.Tenant
	if err := row.Scan(&t.UserID, &t.Name, &t.Role, &t.EmailConfirmed, &t.LastSignInAt); err != nil {
		return common.Tenant{}, err
	}
	return t, nil
}

func (s *NodeStorage) GetAllTenants(ctx context.Context) ([]common.Tenant, error) {
	rows, err := s.conn.Query(ctx, selectTenantsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]common.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tenants: %w", err)
	}
	return tenants, nil
}

func (s *NodeStorage) GetTenantByUserID(ctx context.Context, userID string) (common.Tenant, error) {
	t, err := scanTenant(s.conn.QueryRow(ctx, selectTenantSQL, userID))
	if err != nil {
		return common.Tenant{}, mapError(err)
	}
	return t, nil
}

// CreateTenant stores a new tenant. Sign-in data starts empty and is filled
// by RecordSignIn.
func (s *NodeStorage) CreateTenant(ctx context.Context, tenant common.Tenant) (common.Tenant, error) {
	created, err := scanTenant(s.conn.QueryRow(ctx,
		`INSERT INTO tenants (user_id, name, role) VALUES ($1, $2, $3) RETURNING `+tenantColumns,
		tenant.UserID, tenant.Name, tenant.Role,
	))
	if err != nil {
		return common.Tenant{}, mapError(err)
	}
	return created, nil
}

func (s *NodeStorage) UpdateTenant(ctx context.Context, userID string, update store.TenantUpdate) (common.Tenant, error) {
	updated, err := scanTenant(s.conn.QueryRow(ctx,
		`UPDATE tenants SET
			name = COALESCE($2, name),
			role = COALESCE($3, role),
			updated_at = now()
		WHERE user_id = $1
		RETURNING `+tenantColumns,
		userID, update.Name, update.Role,
	))
	if err != nil {
		return common.Tenant{}, mapError(err)
	}
	return updated, nil
}

func (s *NodeStorage) DeleteTenant(ctx context.Context, userID string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM tenants WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RecordSignIn only writes when the token is newer than the stored sign-in
// or changes the confirmation state, so repeated requests with the same
// token cost no write.
func (s *NodeStorage) RecordSignIn(ctx context.Context, signIn store.SignIn) error {
	_, err := s.conn.Exec(ctx, recordSignInSQL, signIn.UserID, signIn.EmailConfirmed, signIn.At)
	if err != nil {
		return fmt.Errorf("failed to record sign-in: %w", err)
	}
	return nil
}
