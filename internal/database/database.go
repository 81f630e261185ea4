// Package database opens the platform's MariaDB and bootstraps the
// tables the messaging core writes to.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/config"
)

// Init opens and pings the database described by cfg and creates the
// messages table if missing. The users table belongs to the main
// platform and is never created here.
func Init(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS messages (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		from_id VARCHAR(64) NOT NULL,
		to_id VARCHAR(64) NOT NULL,
		content TEXT NOT NULL,
		kind VARCHAR(16) NOT NULL DEFAULT 'text',
		status VARCHAR(16) NOT NULL DEFAULT 'sent',
		created_at DATETIME NOT NULL,
		read_at DATETIME NULL,
		INDEX idx_messages_pair (from_id, to_id, id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}
