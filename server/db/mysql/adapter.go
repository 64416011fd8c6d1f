// Package mysql is a MySQL interests store adapter.
package mysql

import (
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/scorelab/scoring/server/store"
)

// adapter holds MySQL connection data.
type adapter struct {
	db     *sqlx.DB
	dsn    string
	dbName string
}

const (
	defaultDSN      = "root:@tcp(localhost:3306)/scoring?parseTime=true"
	defaultDatabase = "scoring"

	adapterName = "mysql"
)

type configType struct {
	DSN    string `json:"dsn,omitempty"`
	DBName string `json:"database,omitempty"`
}

// Open initializes the MySQL session.
func (a *adapter) Open(jsonconf json.RawMessage) error {
	if a.db != nil {
		return errors.New("adapter mysql is already connected")
	}

	config := configType{DSN: defaultDSN, DBName: defaultDatabase}
	if len(jsonconf) > 0 {
		if err := json.Unmarshal(jsonconf, &config); err != nil {
			return errors.New("adapter mysql failed to parse config: " + err.Error())
		}
	}

	a.dsn = config.DSN
	a.dbName = config.DBName

	var err error
	// This just initializes the driver but does not open the network connection.
	a.db, err = sqlx.Open("mysql", a.dsn)
	if err != nil {
		return err
	}

	// Opens the network connection.
	err = a.db.Ping()
	if err != nil {
		a.db.Close()
		a.db = nil
	}
	return err
}

// Close closes the underlying database connection.
func (a *adapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
	}
	return err
}

// IsOpen returns true if the adapter is connected.
func (a *adapter) IsOpen() bool {
	return a.db != nil
}

// GetName returns the name of the adapter.
func (a *adapter) GetName() string {
	return adapterName
}

// Stats returns the underlying sql.DB connection stats.
func (a *adapter) Stats() interface{} {
	if a.db == nil {
		return nil
	}
	return a.db.Stats()
}

// InterestsGet fetches interest tags for the client id.
func (a *adapter) InterestsGet(clientID int64) ([]string, error) {
	if a.db == nil {
		return nil, errors.New("adapter mysql is not connected")
	}

	tags := []string{}
	err := a.db.Select(&tags, "SELECT tag FROM interests WHERE clientid=?", clientID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return tags, nil
}

func init() {
	store.RegisterAdapter(&adapter{})
}
