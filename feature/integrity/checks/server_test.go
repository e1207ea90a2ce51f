package checks

import (
	"context"
	"errors"
	"testing"

	"warehouse-sync/core/database"
	"warehouse-sync/feature/snapshot"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func columnRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, n := range names {
		rows.AddRow(n, "varchar(64)", "NO", "", nil, "")
	}
	return rows
}

func TestCheckServerIntegrity_NilDB(t *testing.T) {
	report, err := CheckServerIntegrity(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckServerIntegrity_SQLiteMigrated(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, snapshot.NewRepository(db).Migrate(context.Background()))

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", report.Driver)
	assert.True(t, report.Matched)
	assert.Len(t, report.Tables, 4)
	assert.Equal(t, "ok", report.Tables["inventory_records"].Status)
}

func TestCheckServerIntegrity_SQLiteMissingTable(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Contains(t, report.Tables["warehouses"].MissingColumns, "id")
}

func TestCheckServerIntegrity_MySQLMissingColumn(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `warehouses`").
		WillReturnRows(columnRows("id", "latitude", "longitude", "label", "status", "lag", "last_sync"))
	mock.ExpectQuery("SHOW COLUMNS FROM `inventory_records`").
		WillReturnRows(columnRows("warehouse_id", "product_id", "quantity", "version", "last_updated"))
	mock.ExpectQuery("SHOW COLUMNS FROM `inventory_conflicts`").
		WillReturnError(errors.New("table doesn't exist"))
	mock.ExpectQuery("SHOW COLUMNS FROM `inventory_snapshots`").
		WillReturnRows(columnRows("id", "taken_at", "warehouses", "records", "conflicts"))

	report, err := CheckServerIntegrity(db)
	require.NoError(t, err)
	assert.Equal(t, "mysql", report.Driver)
	assert.False(t, report.Matched)

	assert.Equal(t, "ok", report.Tables["warehouses"].Status)
	assert.Equal(t, "error", report.Tables["inventory_records"].Status)
	assert.Equal(t, []string{"reserved"}, report.Tables["inventory_records"].MissingColumns)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "inventory_conflicts")
	assert.NoError(t, mock.ExpectationsWereMet())
}
