package audit

import (
	"time"

	"github.com/unet360/unet360/backend/pkg/common"
)

// DefaultActiveWindow is how recent a sign-in must be for a tenant to count
// as active.
const DefaultActiveWindow = time.Minute

// TenantStatus is the activity status of a single tenant.
type TenantStatus struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// AuditTenants rates every tenant in input order:
//   - ERROR when the e-mail address is not confirmed,
//   - OK when the last sign-in lies within window before now,
//   - WARNING otherwise, including tenants that never signed in.
//
// A tenant whose user never presented a token is unconfirmed and therefore
// ERROR.
func AuditTenants(tenants []common.Tenant, now time.Time, window time.Duration) []TenantStatus {
	if window <= 0 {
		window = DefaultActiveWindow
	}
	activeSince := now.Add(-window)

	statuses := make([]TenantStatus, 0, len(tenants))
	for _, t := range tenants {
		status := StatusWarning
		switch {
		case !t.EmailConfirmed:
			status = StatusError
		case t.LastSignInAt != nil && t.LastSignInAt.After(activeSince):
			status = StatusOK
		}
		statuses = append(statuses, TenantStatus{Name: t.Name, Status: status})
	}
	return statuses
}

// TenantCounts returns the number of tenant statuses per severity.
func TenantCounts(statuses []TenantStatus) map[Status]int {
	counts := map[Status]int{StatusOK: 0, StatusWarning: 0, StatusError: 0}
	for _, s := range statuses {
		counts[s.Status]++
	}
	return counts
}
