// Package boltdb persists session-wide state (settings and DHT state) to a bbolt file.
package boltdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

var Buckets = struct {
	Metadata []byte
	Settings []byte
	DHT      []byte
}{
	Metadata: []byte("__metadata__"),
	Settings: []byte("settings"),
	DHT:      []byte("dht"),
}

// SettingsBuckets are nested inside Buckets.Settings, one per setting type.
var SettingsBuckets = struct {
	Strings []byte
	Ints    []byte
	Bools   []byte
}{
	Strings: []byte("strings"),
	Ints:    []byte("ints"),
	Bools:   []byte("bools"),
}

var MetadataKeys = struct {
	Version []byte
}{
	Version: []byte("version"),
}

var DHTKeys = struct {
	State []byte
}{
	State: []byte("state"),
}

const currentVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported state file version")
)

var openOptions = &bbolt.Options{Timeout: time.Second}

// Load reads the session state at path, keeping only the parts selected by flags. A missing file is not an error:
// found is false and params is empty.
func Load(path string, flags engine.SaveStateFlags) (params engine.SessionParams, found bool, err error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return params, false, nil
	}
	db, err := bbolt.Open(path, 0600, openOptions)
	if err != nil {
		return params, false, err
	}
	defer db.Close()

	params.Settings = engine.NewSettingsPack()
	err = db.View(func(tx *bbolt.Tx) error {
		if metadata := tx.Bucket(Buckets.Metadata); metadata != nil {
			var version int
			if versionBytes := metadata.Get(MetadataKeys.Version); versionBytes != nil {
				if err := json.Unmarshal(versionBytes, &version); err != nil {
					return err
				}
			}
			if version > currentVersion {
				return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
			}
		}
		if flags.Has(engine.SaveSettings) {
			if settings := tx.Bucket(Buckets.Settings); settings != nil {
				if err := readSettings(settings, &params.Settings); err != nil {
					return err
				}
			}
		}
		if flags.Has(engine.SaveDHTState) {
			if dht := tx.Bucket(Buckets.DHT); dht != nil {
				if state := dht.Get(DHTKeys.State); state != nil {
					params.DHTState = append([]byte(nil), state...)
				}
			}
		}
		return nil
	})
	if err != nil {
		return engine.SessionParams{}, false, fmt.Errorf("load session state %s: %w", path, err)
	}
	return params, true, nil
}

func readSettings(settings *bbolt.Bucket, pack *engine.SettingsPack) error {
	if b := settings.Bucket(SettingsBuckets.Strings); b != nil {
		if err := b.ForEach(func(k, v []byte) error {
			var value string
			if err := json.Unmarshal(v, &value); err != nil {
				return err
			}
			pack.SetString(string(k), value)
			return nil
		}); err != nil {
			return err
		}
	}
	if b := settings.Bucket(SettingsBuckets.Ints); b != nil {
		if err := b.ForEach(func(k, v []byte) error {
			var value int
			if err := json.Unmarshal(v, &value); err != nil {
				return err
			}
			pack.SetInt(string(k), value)
			return nil
		}); err != nil {
			return err
		}
	}
	if b := settings.Bucket(SettingsBuckets.Bools); b != nil {
		return b.ForEach(func(k, v []byte) error {
			var value bool
			if err := json.Unmarshal(v, &value); err != nil {
				return err
			}
			pack.SetBool(string(k), value)
			return nil
		})
	}
	return nil
}

// Save writes the parts of params selected by flags to path, creating the file if needed. Parts not selected are left
// as they were.
func Save(path string, params engine.SessionParams, flags engine.SaveStateFlags) error {
	db, err := bbolt.Open(path, 0600, openOptions)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bbolt.Tx) (err error) {
		var metadata *bbolt.Bucket
		if metadata, err = tx.CreateBucketIfNotExists(Buckets.Metadata); err != nil {
			return err
		}
		if versionBytes, err := json.Marshal(currentVersion); err != nil {
			return err
		} else if err = metadata.Put(MetadataKeys.Version, versionBytes); err != nil {
			return err
		}

		if flags.Has(engine.SaveSettings) {
			// Replace the whole settings bucket so removed settings don't linger
			if tx.Bucket(Buckets.Settings) != nil {
				if err := tx.DeleteBucket(Buckets.Settings); err != nil {
					return err
				}
			}
			settings, err := tx.CreateBucket(Buckets.Settings)
			if err != nil {
				return err
			}
			if err := writeSettings(settings, params.Settings); err != nil {
				return err
			}
		}

		if flags.Has(engine.SaveDHTState) {
			dht, err := tx.CreateBucketIfNotExists(Buckets.DHT)
			if err != nil {
				return err
			}
			if len(params.DHTState) == 0 {
				return dht.Delete(DHTKeys.State)
			}
			return dht.Put(DHTKeys.State, params.DHTState)
		}
		return nil
	})
	if closeErr := db.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("save session state %s: %w", path, err)
	}
	return nil
}

func writeSettings(settings *bbolt.Bucket, pack engine.SettingsPack) error {
	put := func(bucketName []byte, key string, value any) error {
		b, err := settings.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		if data, err := json.Marshal(value); err != nil {
			return err
		} else {
			return b.Put([]byte(key), data)
		}
	}
	for k, v := range pack.Strings {
		if err := put(SettingsBuckets.Strings, k, v); err != nil {
			return err
		}
	}
	for k, v := range pack.Ints {
		if err := put(SettingsBuckets.Ints, k, v); err != nil {
			return err
		}
	}
	for k, v := range pack.Bools {
		if err := put(SettingsBuckets.Bools, k, v); err != nil {
			return err
		}
	}
	return nil
}
