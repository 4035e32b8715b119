package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashflow90/internal/config"
	"github.com/theirongolddev/cashflow90/internal/source"
	"github.com/theirongolddev/cashflow90/internal/store"
)

func TestEveryNth(t *testing.T) {
	assert.Equal(t, []int{0, 7, 14, 20}, everyNth(21, 7))
	assert.Equal(t, []int{0, 7, 13}, everyNth(14, 7))
	assert.Equal(t, []int{0, 1, 2}, everyNth(3, 0))
	assert.Nil(t, everyNth(0, 7))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "not configured", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "abcd...", maskSecret("abcdefgh"))
	assert.Equal(t, "postgres...5432", maskSecret("postgres://u:p@localhost:5432"))
}

func TestFormatParameters(t *testing.T) {
	got := formatParameters(map[string]float64{"payroll": -2500, "growth": 0.5})
	assert.Equal(t, "growth=0.5 payroll=-2500", got)
	assert.Empty(t, formatParameters(nil))
}

func TestOpenSourceBackends(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.Source.Backend = config.BackendNone
	src, closeFn, err := openSource(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, source.Empty{}, src)

	cfg.Source.Backend = config.BackendSQLite
	cfg.Source.SQLitePath = filepath.Join(t.TempDir(), "cf.db")
	src, closeFn, err = openSource(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &store.Store{}, src)
}

func TestOpenSourceRESTRequiresURL(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	cfg := config.DefaultConfig()
	cfg.Source.Backend = config.BackendREST
	cfg.Source.RESTURL = ""
	_, closeFn, err := openSource(context.Background(), cfg)
	require.Error(t, err)
	assert.NotNil(t, closeFn)
}
