package routes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/store"
)

var errStoreDown = errors.New("connection refused")

// memoryStore is an in-memory store.NodeStorage.
type memoryStore struct {
	mu        sync.Mutex
	nodes     map[string]common.NodeRecord
	locations map[string]common.Location
	tags      map[string]common.Tag
	tenants   map[string]common.Tenant
	fail      error
}

var (
	_ store.NodeStorage   = (*memoryStore)(nil)
	_ store.TenantStorage = (*memoryStore)(nil)
)

func newMemoryStore(nodes ...common.NodeRecord) *memoryStore {
	s := &memoryStore{
		nodes:     make(map[string]common.NodeRecord),
		locations: make(map[string]common.Location),
		tags:      make(map[string]common.Tag),
		tenants:   make(map[string]common.Tenant),
	}
	for _, n := range nodes {
		s.nodes[n.Name] = n
	}
	return s
}

func (s *memoryStore) GetAllNodes(ctx context.Context) ([]common.NodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]common.NodeRecord, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) GetNodeByName(ctx context.Context, name string) (common.NodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return common.NodeRecord{}, s.fail
	}
	n, ok := s.nodes[name]
	if !ok {
		return common.NodeRecord{}, store.ErrNotFound
	}
	return n, nil
}

func (s *memoryStore) CreateNode(ctx context.Context, node common.NodeRecord) (common.NodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[node.Name]; ok {
		return common.NodeRecord{}, store.ErrConflict
	}
	s.nodes[node.Name] = node
	return node, nil
}

func (s *memoryStore) UpdateNode(ctx context.Context, name string, u store.NodeUpdate) (common.NodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[name]
	if !ok {
		return common.NodeRecord{}, store.ErrNotFound
	}
	if u.Name != nil && *u.Name != name {
		if _, taken := s.nodes[*u.Name]; taken {
			return common.NodeRecord{}, store.ErrConflict
		}
		delete(s.nodes, name)
		n.Name = *u.Name
	}
	if u.Location != nil {
		n.Location = *u.Location
	}
	if u.ImageRef != nil {
		n.ImageRef = *u.ImageRef
	}
	if u.Adjacency != nil {
		n.Adjacency = *u.Adjacency
	}
	if u.DirectionAngles != nil {
		n.DirectionAngles = *u.DirectionAngles
	}
	if u.Tags != nil {
		n.Tags = *u.Tags
	}
	if u.Minimap != nil {
		n.Minimap = u.Minimap
	}
	s.nodes[n.Name] = n
	return n, nil
}

func (s *memoryStore) DeleteNode(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.nodes[name]; !ok {
		return store.ErrNotFound
	}
	delete(s.nodes, name)
	return nil
}

func (s *memoryStore) GetAllLocations(ctx context.Context) ([]common.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.Location, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) GetLocationByName(ctx context.Context, name string) (common.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locations[name]
	if !ok {
		return common.Location{}, store.ErrNotFound
	}
	return l, nil
}

func (s *memoryStore) CreateLocation(ctx context.Context, location common.Location) (common.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[location.Name]; ok {
		return common.Location{}, store.ErrConflict
	}
	s.locations[location.Name] = location
	return location, nil
}

func (s *memoryStore) RenameLocation(ctx context.Context, name string, newName string) (common.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[name]; !ok {
		return common.Location{}, store.ErrNotFound
	}
	if _, taken := s.locations[newName]; taken && newName != name {
		return common.Location{}, store.ErrConflict
	}
	delete(s.locations, name)
	s.locations[newName] = common.Location{Name: newName}
	for key, n := range s.nodes {
		if n.Location == name {
			n.Location = newName
			s.nodes[key] = n
		}
	}
	return common.Location{Name: newName}, nil
}

func (s *memoryStore) DeleteLocation(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[name]; !ok {
		return store.ErrNotFound
	}
	delete(s.locations, name)
	for key, n := range s.nodes {
		if n.Location == name {
			n.Location = ""
			s.nodes[key] = n
		}
	}
	return nil
}

func (s *memoryStore) GetAllTags(ctx context.Context) ([]common.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]common.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) GetTagByName(ctx context.Context, name string) (common.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[name]
	if !ok {
		return common.Tag{}, store.ErrNotFound
	}
	return t, nil
}

func (s *memoryStore) CreateTag(ctx context.Context, tag common.Tag) (common.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[tag.Name]; ok {
		return common.Tag{}, store.ErrConflict
	}
	s.tags[tag.Name] = tag
	return tag, nil
}

func (s *memoryStore) UpdateTag(ctx context.Context, name string, u store.TagUpdate) (common.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[name]
	if !ok {
		return common.Tag{}, store.ErrNotFound
	}
	if u.IconName != nil {
		t.IconName = u.IconName
	}
	if u.Name != nil && *u.Name != name {
		if _, taken := s.tags[*u.Name]; taken {
			return common.Tag{}, store.ErrConflict
		}
		delete(s.tags, name)
		t.Name = *u.Name
		for key, n := range s.nodes {
			if values, ok := n.Tags[name]; ok {
				delete(n.Tags, name)
				n.Tags[t.Name] = values
				s.nodes[key] = n
			}
		}
	}
	s.tags[t.Name] = t
	return t, nil
}

func (s *memoryStore) DeleteTag(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[name]; !ok {
		return store.ErrNotFound
	}
	delete(s.tags, name)
	for _, n := range s.nodes {
		delete(n.Tags, name)
	}
	return nil
}

func (s *memoryStore) GetAllTenants(ctx context.Context) ([]common.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]common.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) GetTenantByUserID(ctx context.Context, userID string) (common.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[userID]
	if !ok {
		return common.Tenant{}, store.ErrNotFound
	}
	return t, nil
}

func (s *memoryStore) CreateTenant(ctx context.Context, tenant common.Tenant) (common.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenant.UserID]; ok {
		return common.Tenant{}, store.ErrConflict
	}
	created := common.Tenant{UserID: tenant.UserID, Name: tenant.Name, Role: tenant.Role}
	s.tenants[tenant.UserID] = created
	return created, nil
}

func (s *memoryStore) UpdateTenant(ctx context.Context, userID string, u store.TenantUpdate) (common.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[userID]
	if !ok {
		return common.Tenant{}, store.ErrNotFound
	}
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Role != nil {
		t.Role = *u.Role
	}
	s.tenants[userID] = t
	return t, nil
}

func (s *memoryStore) DeleteTenant(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[userID]; !ok {
		return store.ErrNotFound
	}
	delete(s.tenants, userID)
	return nil
}

func (s *memoryStore) RecordSignIn(ctx context.Context, signIn store.SignIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[signIn.UserID]
	if !ok {
		return nil
	}
	t.EmailConfirmed = signIn.EmailConfirmed
	if t.LastSignInAt == nil || signIn.At.After(*t.LastSignInAt) {
		at := signIn.At
		t.LastSignInAt = &at
	}
	s.tenants[signIn.UserID] = t
	return nil
}

// signedInAgo records a sign-in of userID that happened d ago.
func (s *memoryStore) signedInAgo(userID string, confirmed bool, d time.Duration) {
	_ = s.RecordSignIn(context.Background(), store.SignIn{UserID: userID, EmailConfirmed: confirmed, At: time.Now().Add(-d)})
}

type changeEvent struct {
	reason string
	node   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []changeEvent
}

func (p *recordingPublisher) GraphChanged(ctx context.Context, reason, node string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, changeEvent{reason, node})
	return nil
}

func (p *recordingPublisher) recorded() []changeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]changeEvent(nil), p.events...)
}
