// Package mongodb is a MongoDB interests store adapter.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scorelab/scoring/server/store"
)

// adapter holds MongoDB connection data.
type adapter struct {
	conn   *mdb.Client
	db     *mdb.Database
	dbName string
	ctx    context.Context
}

const (
	defaultHost     = "localhost:27017"
	defaultDatabase = "scoring"

	adapterName = "mongodb"
)

type configType struct {
	Addresses      interface{} `json:"addresses,omitempty"`
	ConnectTimeout int         `json:"timeout,omitempty"`

	Database   string `json:"database,omitempty"`
	ReplicaSet string `json:"replica_set,omitempty"`

	AuthSource string `json:"auth_source,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Open initializes the MongoDB session.
func (a *adapter) Open(jsonconf json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter mongodb is already connected")
	}

	var err error
	var config configType
	if len(jsonconf) > 0 {
		if err = json.Unmarshal(jsonconf, &config); err != nil {
			return errors.New("adapter mongodb failed to parse config: " + err.Error())
		}
	}

	var opts mdbopts.ClientOptions

	if config.Addresses == nil {
		opts.SetHosts([]string{defaultHost})
	} else if host, ok := config.Addresses.(string); ok {
		opts.SetHosts([]string{host})
	} else if ihosts, ok := config.Addresses.([]interface{}); ok && len(ihosts) > 0 {
		hosts := make([]string, 0, len(ihosts))
		for _, ih := range ihosts {
			host, ok := ih.(string)
			if !ok || host == "" {
				return errors.New("adapter mongodb invalid config.Addresses value")
			}
			hosts = append(hosts, host)
		}
		opts.SetHosts(hosts)
	} else {
		return errors.New("adapter mongodb failed to parse config.Addresses")
	}

	if config.Database == "" {
		config.Database = defaultDatabase
	}
	a.dbName = config.Database

	if config.ReplicaSet != "" {
		opts.SetReplicaSet(config.ReplicaSet)
	}

	if config.Username != "" {
		var passwordSet bool
		if config.AuthSource == "" {
			config.AuthSource = "admin"
		}
		if config.Password != "" {
			passwordSet = true
		}
		opts.SetAuth(
			mdbopts.Credential{
				AuthMechanism: "SCRAM-SHA-256",
				AuthSource:    config.AuthSource,
				Username:      config.Username,
				Password:      config.Password,
				PasswordSet:   passwordSet,
			})
	}

	if config.ConnectTimeout > 0 {
		opts.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	}

	a.ctx = context.Background()
	a.conn, err = mdb.Connect(a.ctx, &opts)
	if err != nil {
		return err
	}
	a.db = a.conn.Database(a.dbName)

	return nil
}

// Close the adapter.
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		err = a.conn.Disconnect(a.ctx)
		a.conn = nil
	}
	return err
}

// IsOpen checks if the adapter is ready for use.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetName returns the name of the adapter.
func (a *adapter) GetName() string {
	return adapterName
}

// Stats returns nothing: the driver does not expose pool stats here.
func (a *adapter) Stats() interface{} {
	return nil
}

// InterestsGet fetches interest tags for the client id.
func (a *adapter) InterestsGet(clientID int64) ([]string, error) {
	if a.conn == nil {
		return nil, errors.New("adapter mongodb is not connected")
	}

	var doc struct {
		Tags []string `bson:"tags"`
	}
	err := a.db.Collection("interests").FindOne(a.ctx, b.M{"_id": clientID}).Decode(&doc)
	if err != nil {
		if err == mdb.ErrNoDocuments {
			return []string{}, nil
		}
		return nil, err
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	return doc.Tags, nil
}

func init() {
	store.RegisterAdapter(&adapter{})
}
