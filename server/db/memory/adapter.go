// Package memory is an in-memory interests store adapter, seedable from the
// adapter config or from a JSON file. Used for development and tests.
package memory

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"

	"github.com/scorelab/scoring/server/store"
)

// adapter holds the seeded interests mapping. The mapping is read-only after
// Open, so concurrent lookups need no locking.
type adapter struct {
	interests map[int64][]string
	open      bool
}

const adapterName = "memory"

type configType struct {
	// Inline seed data: client id (as a string key) to interest tags.
	Interests map[string][]string `json:"interests,omitempty"`
	// Optional path to a JSON file with the same shape.
	SeedFile string `json:"seed_file,omitempty"`
}

// Open seeds the adapter from its config.
func (a *adapter) Open(jsonconf json.RawMessage) error {
	if a.open {
		return errors.New("adapter memory is already connected")
	}

	var config configType
	if len(jsonconf) > 0 {
		if err := json.Unmarshal(jsonconf, &config); err != nil {
			return errors.New("adapter memory failed to parse config: " + err.Error())
		}
	}

	a.interests = make(map[int64][]string)
	if config.SeedFile != "" {
		raw, err := os.ReadFile(config.SeedFile)
		if err != nil {
			return errors.New("adapter memory failed to read seed file: " + err.Error())
		}
		var seed configType
		if err = json.Unmarshal(raw, &seed); err != nil {
			return errors.New("adapter memory failed to parse seed file: " + err.Error())
		}
		if err = a.seed(seed.Interests); err != nil {
			return err
		}
	}
	if err := a.seed(config.Interests); err != nil {
		return err
	}

	a.open = true
	return nil
}

func (a *adapter) seed(interests map[string][]string) error {
	for key, tags := range interests {
		cid, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return errors.New("adapter memory: client id is not an integer: " + key)
		}
		a.interests[cid] = tags
	}
	return nil
}

// Close clears the seeded data.
func (a *adapter) Close() error {
	a.interests = nil
	a.open = false
	return nil
}

// IsOpen returns true if the adapter is ready for use.
func (a *adapter) IsOpen() bool {
	return a.open
}

// GetName returns the name of the adapter.
func (a *adapter) GetName() string {
	return adapterName
}

// Stats returns nothing: the memory adapter keeps no runtime stats.
func (a *adapter) Stats() interface{} {
	return nil
}

// InterestsGet returns seeded tags for the client id, an empty list if the
// id is unknown.
func (a *adapter) InterestsGet(clientID int64) ([]string, error) {
	if !a.open {
		return nil, errors.New("adapter memory is not connected")
	}
	tags, ok := a.interests[clientID]
	if !ok {
		return []string{}, nil
	}
	// Callers must not see the seed slice itself.
	out := make([]string, len(tags))
	copy(out, tags)
	return out, nil
}

func init() {
	store.RegisterAdapter(&adapter{})
}
