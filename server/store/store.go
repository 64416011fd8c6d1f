// Package store provides methods for registering and accessing interests
// store adapters.
package store

import (
	"encoding/json"
	"errors"

	"github.com/scorelab/scoring/server/store/adapter"
)

var adp adapter.Adapter

var availableAdapters = make(map[string]adapter.Adapter)

type configType struct {
	// DB adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

func openAdapter(jsonconf json.RawMessage) error {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("store: failed to parse config: " + err.Error() + "(" + string(jsonconf) + ")")
	}

	if adp == nil {
		if len(config.UseAdapter) > 0 {
			// Adapter name specified explicitly.
			if ad, ok := availableAdapters[config.UseAdapter]; ok {
				adp = ad
			} else {
				return errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
			}
		} else if len(availableAdapters) == 1 {
			// Default to the only entry in availableAdapters.
			for _, v := range availableAdapters {
				adp = v
			}
		} else {
			return errors.New("store: db adapter is not specified. Please set `store_config.use_adapter`")
		}
	}

	if adp.IsOpen() {
		return errors.New("store: connection is already opened")
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[adp.GetName()]
	}

	return adp.Open(adapterConfig)
}

// Open initializes the persistence system. Adapter name is provided in the
// config as `use_adapter`.
func Open(jsonconf json.RawMessage) error {
	return openAdapter(jsonconf)
}

// Close terminates the connection to the persistent storage.
func Close() error {
	if adp == nil || !adp.IsOpen() {
		return nil
	}
	return adp.Close()
}

// IsOpen checks if persistent storage is ready for use.
func IsOpen() bool {
	return adp != nil && adp.IsOpen()
}

// GetAdapterName returns the name of the current adapter.
func GetAdapterName() string {
	if adp == nil {
		return ""
	}
	return adp.GetName()
}

// Stats returns the current adapter's runtime stats for monitoring.
func Stats() interface{} {
	if adp == nil {
		return nil
	}
	return adp.Stats()
}

// RegisterAdapter makes a persistence adapter available.
// If Register is called twice or if the adapter is nil, it panics.
func RegisterAdapter(a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}

	adapterName := a.GetName()
	if _, ok := availableAdapters[adapterName]; ok {
		panic("store: adapter '" + adapterName + "' is already registered")
	}
	availableAdapters[adapterName] = a
}

// InterestsPersistenceInterface is the subset of storage operations available
// to method handlers. Tests may replace Interests with a mock.
type InterestsPersistenceInterface interface {
	// Get fetches interest tags for the client id.
	Get(clientID int64) ([]string, error)
}

type interestsMapper struct{}

// Interests is the access object for interest records.
var Interests InterestsPersistenceInterface = interestsMapper{}

// Get fetches interest tags for the client id from the opened adapter.
func (interestsMapper) Get(clientID int64) ([]string, error) {
	if adp == nil || !adp.IsOpen() {
		return nil, errors.New("store: adapter is not open")
	}
	return adp.InterestsGet(clientID)
}
