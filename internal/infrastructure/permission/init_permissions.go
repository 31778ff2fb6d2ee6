package permission

import (
	"fmt"

	"github.com/memberhub/memberhub/internal/shared/authorization"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const (
	ResourceSubscription = "subscription"
	ResourcePlan         = "subscription_plan"
	ResourceIDCard       = "id_card"
	ResourceTransaction  = "transaction"

	ActionRead   = "read"
	ActionManage = "manage"
)

func defaultPolicies() [][]string {
	admin, member := authorization.RoleAdmin.String(), authorization.RoleMember.String()
	return [][]string{
		// Admin permissions
		{admin, ResourceSubscription, "*"},
		{admin, ResourcePlan, "*"},
		{admin, ResourceIDCard, "*"},
		{admin, ResourceTransaction, ActionRead},

		// Member permissions, always scoped to the caller's own records
		{member, ResourceSubscription, ActionRead},
		{member, ResourcePlan, ActionRead},
		{member, ResourceIDCard, ActionRead},
	}
}

// SeedDefaultPolicies adds the built-in role policies. Existing rows are
// left alone, so running it on every start is safe.
func SeedDefaultPolicies(e *Enforcer, log logger.Interface) error {
	added := 0
	for _, policy := range defaultPolicies() {
		e.mu.Lock()
		ok, err := e.enforcer.AddPolicy(policy[0], policy[1], policy[2])
		e.mu.Unlock()
		if err != nil {
			log.Errorw("failed to add permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
		if ok {
			added++
		}
	}

	log.Infow("permission policies seeded", "added", added)
	return nil
}
