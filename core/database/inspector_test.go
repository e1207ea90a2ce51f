package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE inventory_records (warehouse_id TEXT NOT NULL, product_id TEXT NOT NULL, quantity INTEGER, PRIMARY KEY (warehouse_id, product_id))").Error)
	return db
}

func TestGetTableColumns(t *testing.T) {
	db := memoryDB(t)

	columns, err := GetTableColumns(db, "inventory_records")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	byName := make(map[string]ColumnInfo)
	for _, col := range columns {
		byName[col.Field] = col
	}
	assert.Equal(t, "text", byName["warehouse_id"].Type)
	assert.Equal(t, "PRI", byName["warehouse_id"].Key)
	assert.Equal(t, "NO", byName["product_id"].Null)
	assert.Equal(t, "integer", byName["quantity"].Type)
	assert.Equal(t, "YES", byName["quantity"].Null)

	// PRAGMA table_info returns no rows for unknown tables
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db := memoryDB(t)

	missing, err := MissingColumns(db, "inventory_records", []string{"warehouse_id", "Quantity", "reserved"})
	require.NoError(t, err)
	assert.Equal(t, []string{"reserved"}, missing)

	missing, err = MissingColumns(db, "inventory_conflicts", []string{"id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}
