package db

import "database/sql"

// DB wraps *sql.DB so stores depend on one explicit handle type.
type DB struct {
	*sql.DB
}
