package migrations_test

import (
	"testing"

	"github.com/edulytics/edulytics-server/internal/migrations"
	"github.com/edulytics/edulytics-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_UpDownUp(t *testing.T) {
	testDB := testutil.NewTestDB(t)

	m, err := migrations.NewMigrator(testDB.DSN)
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// Already applied.
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, testDB.DB.Migrator().HasTable("users"))

	require.NoError(t, m.Up())
	assert.True(t, testDB.DB.Migrator().HasTable("student_profiles"))
	assert.True(t, testDB.DB.Migrator().HasTable("topics"))
}
