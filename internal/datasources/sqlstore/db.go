package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/huandu/go-sqlbuilder"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported PROGRESS_DRIVER values.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const mysqlParseTimeParam = "parseTime=true"

// Connect opens and pings a database for the given driver.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	maxOpenConns := 10

	switch driver {
	case DriverMySQL:
		if !strings.Contains(dsn, mysqlParseTimeParam) {
			if strings.Contains(dsn, "?") {
				dsn += "&" + mysqlParseTimeParam
			} else {
				dsn += "?" + mysqlParseTimeParam
			}
		}
	case DriverPostgres:
	case DriverSQLite:
		// SQLite serialises writers; a single connection also keeps ":memory:" databases shared.
		maxOpenConns = 1
	default:
		return nil, fmt.Errorf("unknown SQL driver [%s]", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s DB: %w", driver, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("checking %s DB connection: %w", driver, err)
	}

	return db, nil
}

// FlavorFor returns the SQL dialect used to build queries for a driver.
func FlavorFor(driver string) (sqlbuilder.Flavor, error) {
	switch driver {
	case DriverMySQL:
		return sqlbuilder.MySQL, nil
	case DriverPostgres:
		return sqlbuilder.PostgreSQL, nil
	case DriverSQLite:
		return sqlbuilder.SQLite, nil
	default:
		return 0, fmt.Errorf("unknown SQL driver [%s]", driver)
	}
}
