package resolver

import (
	"github.com/username/algotax/backend/src/database"
	"github.com/username/algotax/backend/src/models"
)

// sqliteStore persists resolved entities in the application database.
type sqliteStore struct{}

// NewSQLiteStore returns a Store backed by the shared database connection.
// database.InitDB must have been called first.
func NewSQLiteStore() Store {
	return &sqliteStore{}
}

func (s *sqliteStore) LoadAssets() ([]models.Asset, error) {
	rows, err := database.DB.Query(`SELECT id, name, decimals FROM assets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var asset models.Asset
		if err := rows.Scan(&asset.ID, &asset.Name, &asset.Decimals); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (s *sqliteStore) LoadAccounts() ([]models.Account, error) {
	rows, err := database.DB.Query(`SELECT address, name, intent FROM accounts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.Address, &account.Name, &account.Intent); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (s *sqliteStore) LoadApplications() ([]models.Application, error) {
	rows, err := database.DB.Query(`SELECT id, name, intent, tag FROM applications`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(&app.ID, &app.Name, &app.Intent, &app.Tag); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (s *sqliteStore) SaveAsset(asset models.Asset) error {
	_, err := database.DB.Exec(
		`INSERT OR REPLACE INTO assets (id, name, decimals) VALUES (?, ?, ?)`,
		asset.ID, asset.Name, asset.Decimals)
	return err
}

func (s *sqliteStore) SaveAccount(account models.Account) error {
	_, err := database.DB.Exec(
		`INSERT OR REPLACE INTO accounts (address, name, intent) VALUES (?, ?, ?)`,
		account.Address, account.Name, account.Intent)
	return err
}

func (s *sqliteStore) SaveApplication(app models.Application) error {
	_, err := database.DB.Exec(
		`INSERT OR REPLACE INTO applications (id, name, intent, tag) VALUES (?, ?, ?, ?)`,
		app.ID, app.Name, app.Intent, app.Tag)
	return err
}
