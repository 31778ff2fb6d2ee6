package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/memberhub/memberhub/internal/shared/logger"
)

func newTestEnforcer(t *testing.T) (*Enforcer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	e, err := NewEnforcer(db, "does-not-exist.conf", logger.NewNop())
	require.NoError(t, err)
	return e, db
}

func TestSeedDefaultPolicies(t *testing.T) {
	e, db := newTestEnforcer(t)
	require.NoError(t, SeedDefaultPolicies(e, logger.NewNop()))
	require.NoError(t, SeedDefaultPolicies(e, logger.NewNop()))

	policies, err := e.Policies()
	require.NoError(t, err)
	assert.Len(t, policies, len(defaultPolicies()))

	var stored int64
	require.NoError(t, db.Table("casbin_rule").Count(&stored).Error)
	assert.Equal(t, int64(len(defaultPolicies())), stored)

	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{"admin", ResourceIDCard, "regenerate", true},
		{"admin", ResourceSubscription, ActionManage, true},
		{"admin", ResourceTransaction, ActionRead, true},
		{"admin", ResourceTransaction, ActionManage, false},
		{"member", ResourceIDCard, ActionRead, true},
		{"member", ResourceIDCard, ActionManage, false},
		{"member", ResourcePlan, ActionManage, false},
		{"anonymous", ResourcePlan, ActionRead, false},
	}
	for _, tt := range tests {
		allowed, err := e.Enforce(tt.sub, tt.obj, tt.act)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s %s", tt.sub, tt.obj, tt.act)
	}
}

func TestEnforcer_AddRemoveReload(t *testing.T) {
	e, db := newTestEnforcer(t)

	require.NoError(t, e.AddPolicy("auditor", ResourceTransaction, ActionRead))
	allowed, err := e.Enforce("auditor", ResourceTransaction, ActionRead)
	require.NoError(t, err)
	assert.True(t, allowed)

	reloaded, err := NewEnforcer(db, "", logger.NewNop())
	require.NoError(t, err)
	allowed, err = reloaded.Enforce("auditor", ResourceTransaction, ActionRead)
	require.NoError(t, err)
	assert.True(t, allowed, "policies persist through the adapter")

	require.NoError(t, e.RemovePolicy("auditor", ResourceTransaction, ActionRead))
	require.NoError(t, reloaded.LoadPolicy())
	allowed, err = reloaded.Enforce("auditor", ResourceTransaction, ActionRead)
	require.NoError(t, err)
	assert.False(t, allowed)
}
