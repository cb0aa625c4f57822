package store

import (
	"context"
	"errors"
	"time"

	"github.com/unet360/unet360/backend/pkg/common"
)

var (
	// ErrNotFound is returned when a named record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a unique name.
	ErrConflict = errors.New("already exists")
)

// NodeSource supplies persisted node records. It is the only thing the
// graph and audit packages need from persistence.
type NodeSource interface {
	GetAllNodes(ctx context.Context) ([]common.NodeRecord, error)
	GetNodeByName(ctx context.Context, name string) (common.NodeRecord, error)
}

// NodeUpdate carries the fields of a partial node update. Nil fields are
// left untouched. An empty Location clears the location.
type NodeUpdate struct {
	Name            *string
	Location        *string
	ImageRef        *string
	Adjacency       *common.Adjacency
	DirectionAngles *[]*float64
	Tags            *map[string]map[string]float64
	Minimap         *common.Minimap
}

// TagUpdate carries the fields of a partial tag update.
type TagUpdate struct {
	Name     *string
	IconName *string
}

// NodeStorage is the full persistence surface used by the HTTP layer:
// node, location and tag CRUD keyed by unique name.
type NodeStorage interface {
	NodeSource

	CreateNode(ctx context.Context, node common.NodeRecord) (common.NodeRecord, error)
	UpdateNode(ctx context.Context, name string, update NodeUpdate) (common.NodeRecord, error)
	DeleteNode(ctx context.Context, name string) error

	GetAllLocations(ctx context.Context) ([]common.Location, error)
	GetLocationByName(ctx context.Context, name string) (common.Location, error)
	CreateLocation(ctx context.Context, location common.Location) (common.Location, error)
	RenameLocation(ctx context.Context, name string, newName string) (common.Location, error)
	DeleteLocation(ctx context.Context, name string) error

	GetAllTags(ctx context.Context) ([]common.Tag, error)
	GetTagByName(ctx context.Context, name string) (common.Tag, error)
	CreateTag(ctx context.Context, tag common.Tag) (common.Tag, error)
	UpdateTag(ctx context.Context, name string, update TagUpdate) (common.Tag, error)
	DeleteTag(ctx context.Context, name string) error
}

// TenantUpdate carries the fields of a partial tenant update.
type TenantUpdate struct {
	Name *string
	Role *string
}

// SignIn is what a verified token says about its user.
type SignIn struct {
	UserID         string
	EmailConfirmed bool
	At             time.Time
}

// TenantStorage persists tenants keyed by user id.
type TenantStorage interface {
	GetAllTenants(ctx context.Context) ([]common.Tenant, error)
	GetTenantByUserID(ctx context.Context, userID string) (common.Tenant, error)
	CreateTenant(ctx context.Context, tenant common.Tenant) (common.Tenant, error)
	UpdateTenant(ctx context.Context, userID string, update TenantUpdate) (common.Tenant, error)
	DeleteTenant(ctx context.Context, userID string) error

	// RecordSignIn stores the confirmation state and sign-in time of a
	// tenant. Sign-ins older than the stored one do not move it back.
	// Users without a tenant are ignored.
	RecordSignIn(ctx context.Context, signIn SignIn) error
}
