package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unet360/unet360/backend/pkg/common"
)

func TestAuditTenants(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	at := func(ago time.Duration) *time.Time {
		ts := now.Add(-ago)
		return &ts
	}

	tests := []struct {
		name   string
		tenant common.Tenant
		want   Status
	}{
		{"signed in just now", common.Tenant{EmailConfirmed: true, LastSignInAt: at(10 * time.Second)}, StatusOK},
		{"signed in a while ago", common.Tenant{EmailConfirmed: true, LastSignInAt: at(time.Hour)}, StatusWarning},
		{"exactly at the window edge", common.Tenant{EmailConfirmed: true, LastSignInAt: at(time.Minute)}, StatusWarning},
		{"confirmed but never signed in", common.Tenant{EmailConfirmed: true}, StatusWarning},
		{"unconfirmed recent sign in", common.Tenant{LastSignInAt: at(time.Second)}, StatusError},
		{"never seen", common.Tenant{}, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.tenant.Name = "desk"
			got := AuditTenants([]common.Tenant{tt.tenant}, now, time.Minute)
			assert.Equal(t, []TenantStatus{{Name: "desk", Status: tt.want}}, got)
		})
	}
}

func TestAuditTenants_WindowAndOrder(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	fiveMinutesAgo := now.Add(-5 * time.Minute)
	tenants := []common.Tenant{
		{Name: "b", EmailConfirmed: true, LastSignInAt: &fiveMinutesAgo},
		{Name: "a"},
	}

	assert.Equal(t, []TenantStatus{{"b", StatusOK}, {"a", StatusError}}, AuditTenants(tenants, now, 10*time.Minute))
	// A non-positive window falls back to the default of one minute.
	assert.Equal(t, StatusWarning, AuditTenants(tenants, now, 0)[0].Status)
	assert.Empty(t, AuditTenants(nil, now, time.Minute))
}

func TestTenantCounts(t *testing.T) {
	counts := TenantCounts([]TenantStatus{{"a", StatusOK}, {"b", StatusError}, {"c", StatusError}})
	assert.Equal(t, map[Status]int{StatusOK: 1, StatusWarning: 0, StatusError: 2}, counts)
}
