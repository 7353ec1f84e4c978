package migrations_test

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccompare/db/migrations"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	b, err := fs.ReadFile(migrations.FS, name)
	require.NoError(t, err)
	return string(b)
}

func sessionsTable(t *testing.T) string {
	t.Helper()
	up := readMigration(t, "000001_init.up.sql")
	start := strings.Index(up, "CREATE TABLE IF NOT EXISTS analysis_sessions")
	require.GreaterOrEqual(t, start, 0)
	end := strings.Index(up[start:], ");")
	require.Greater(t, end, 0)
	return up[start : start+end]
}

func TestInit_SessionsKeepExactlyOneSetReference(t *testing.T) {
	table := sessionsTable(t)

	assert.Contains(t, table, "CHECK ((remote_set_id IS NULL) <> (group_id IS NULL))")
	// Deleting a group must not clear group_id on historical sessions.
	groupCol := regexp.MustCompile(`(?m)^\s*group_id\s+[^\n]*$`).FindString(table)
	require.NotEmpty(t, groupCol)
	assert.NotContains(t, groupCol, "REFERENCES")
	assert.NotContains(t, groupCol, "ON DELETE")
}

func TestInit_DefaultRulePerUserIsUnique(t *testing.T) {
	up := readMigration(t, "000001_init.up.sql")
	assert.Regexp(t, `CREATE UNIQUE INDEX IF NOT EXISTS uq_comparison_rules_default\s+ON comparison_rules \(user_id\) WHERE is_default`, up)
}

func TestInit_DownDropsEveryTable(t *testing.T) {
	down := readMigration(t, "000001_init.down.sql")
	for _, table := range []string{"analysis_sessions", "uploaded_documents", "document_groups", "comparison_rules"} {
		assert.Contains(t, down, "DROP TABLE IF EXISTS "+table)
	}
}
