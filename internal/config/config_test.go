// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 14, cfg.LoanDays)
	assert.Equal(t, 50, cfg.FinePencePerDay)
	assert.Empty(t, cfg.SeedDataDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LIBRIS_ADDR", ":9090")
	t.Setenv("LIBRIS_LOAN_DAYS", "7")
	t.Setenv("LIBRIS_FINE_PENCE_PER_DAY", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 7, cfg.LoanDays)
	assert.Equal(t, 25, cfg.FinePencePerDay)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LIBRIS_LOAN_DAYS", "0")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LIBRIS_LOAN_DAYS", "14")
	t.Setenv("LIBRIS_FINE_PENCE_PER_DAY", "-1")
	_, err = Load()
	require.Error(t, err)
}
