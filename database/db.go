package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/internal/cache"
)

// Package-level singleton so every caller shares one connection pool.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		newCache, errCache := cache.NewCache()
		if errCache != nil {
			log.Printf("cache unavailable, continuing without it: %v", errCache)
		}
		instance = &Datasource{Conn: con, Cache: newCache}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createLeadTable(db)
	if err != nil {
		return nil, err
	}
	err = createReminderTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createLeadTable creates a PostgreSQL table for the Lead struct
func createLeadTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS leads (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			policy_id TEXT,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating leads table: %v", err)
	}
	return err
}

// createReminderTable creates a PostgreSQL table for the Reminder struct
func createReminderTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id SERIAL PRIMARY KEY,
			lead_id INTEGER NOT NULL REFERENCES leads(id),
			due_date TIMESTAMP NOT NULL,
			message TEXT NOT NULL,
			sent BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating reminders table: %v", err)
	}
	return err
}
