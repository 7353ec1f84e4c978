package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doccompare/internal/config"
)

func TestConnConfig(t *testing.T) {
	connCfg, err := connConfig(&config.DBConfig{
		User: "doccompare", Password: "secret", Host: "db.internal", Port: 6432,
		Name: "doccompare_db", SSLMode: "disable",
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", connCfg.Host)
	assert.Equal(t, uint16(6432), connCfg.Port)
	assert.Equal(t, "doccompare_db", connCfg.Database)
	assert.Equal(t, "doccompare", connCfg.RuntimeParams["application_name"])
}

func TestConnConfig_InvalidSSLMode(t *testing.T) {
	_, err := connConfig(&config.DBConfig{
		User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "sometimes",
	})
	assert.Error(t, err)
}
