package repo

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"StampVault/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB открывает SQLite (modernc) во временном каталоге и выполняет миграции.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "vault.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// requireSameStamp сравнивает записи по их JSON-представлению:
// decimal-значения равны по смыслу, но не всегда побайтно.
func requireSameStamp(t *testing.T, want, got model.Stamp) {
	t.Helper()
	w, err := json.Marshal(want)
	require.NoError(t, err)
	g, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, string(w), string(g))
}
