package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/algotax/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateApplicationsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		decimals INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		address TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT 'Unknown'
	);

	CREATE TABLE IF NOT EXISTS applications (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT 'Unknown',
		tag TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		txn_id TEXT NOT NULL,
		group_id TEXT,
		type TEXT NOT NULL,
		sender TEXT NOT NULL,
		receiver TEXT,
		asset_id INTEGER,
		amount INTEGER,
		fee INTEGER,
		round INTEGER,
		note TEXT,
		application_id INTEGER,
		timestamp_ms INTEGER,
		run_id TEXT,
		UNIQUE(txn_id, run_id)
	);

	CREATE TABLE IF NOT EXISTS taxable_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		txn_id TEXT NOT NULL,
		timestamp_ms INTEGER NOT NULL,
		currency_name TEXT NOT NULL,
		quantity REAL NOT NULL,
		action TEXT NOT NULL,
		note TEXT,
		group_id TEXT,
		run_id TEXT,
		UNIQUE(txn_id, run_id)
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateApplicationsTable adds the 'tag' column to databases created before
// protocol tagging existed.
func migrateApplicationsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='applications'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return // table will be created with the column in place
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'applications' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'applications' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(applications)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'applications'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'applications': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'applications'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'applications': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'applications'", "error", err)
		}
		return
	}

	if _, ok := columnExists["tag"]; !ok {
		_, err := DB.Exec("ALTER TABLE applications ADD COLUMN tag TEXT DEFAULT ''")
		if err != nil {
			logger.L.Error("Error adding 'tag' column to 'applications' table", "error", err)
		} else {
			logger.L.Info("Added 'tag' column to 'applications' table")
		}
	}
}
