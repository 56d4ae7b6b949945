package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@host/db", driverURL("postgres://u:p@host/db"))
	assert.Equal(t, "pgx5://u:p@host/db", driverURL("postgresql://u:p@host/db"))
	assert.Equal(t, "pgx5://u:p@host/db", driverURL("pgx5://u:p@host/db"))
}

func TestMigrationsFS_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
}

func TestMigrationsFS_DeclareIdentityConstraints(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "sql/000001_identity.up.sql")
	require.NoError(t, err)
	sql := string(data)

	assert.Contains(t, sql, "CONSTRAINT users_email_key UNIQUE (email)")
	assert.Contains(t, sql, "REFERENCES users (id) ON DELETE CASCADE")
	assert.Contains(t, sql, "CHECK (frontend_level BETWEEN 0 AND 5)")
}
