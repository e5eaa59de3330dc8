package repository

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"intellibiz-backend/models"
)

func openDialect(t *testing.T, name string) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	var dialector gorm.Dialector
	switch name {
	case "mysql":
		dialector = mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})
	case "postgres":
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

// Every migrated column must resolve to a type both engines accept.
func TestMigratedColumnTypes(t *testing.T) {
	entities := []any{
		&models.User{}, &models.Business{}, &models.Service{}, &models.Appointment{},
		&models.Review{}, &models.Message{}, &models.Settings{}, &models.ReminderLog{},
	}

	for _, driver := range []string{"mysql", "postgres"} {
		db := openDialect(t, driver)
		for _, entity := range entities {
			stmt := &gorm.Statement{DB: db}
			require.NoError(t, stmt.Parse(entity))

			for _, field := range stmt.Schema.Fields {
				if field.DBName == "" {
					continue
				}
				column := db.Migrator().FullDataTypeOf(field).SQL
				assert.NotEmpty(t, column, "%s %s.%s", driver, stmt.Schema.Table, field.DBName)
				assert.False(t, strings.HasPrefix(column, "uuid"), "%s %s.%s = %q", driver, stmt.Schema.Table, field.DBName, column)
			}
		}

		stmt := &gorm.Statement{DB: db}
		require.NoError(t, stmt.Parse(&models.Appointment{}))
		assert.Equal(t, "char(36) NOT NULL", db.Migrator().FullDataTypeOf(stmt.Schema.LookUpField("business_id")).SQL, driver)
	}
}
