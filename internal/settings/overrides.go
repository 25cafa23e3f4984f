package settings

import (
	"fmt"
	"net"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/alanbriolat/swarmkeeper/generic"
	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

type overrideFunc func(params *engine.AddParams, value string) error

var overrides = map[string]overrideFunc{
	"trackers": func(params *engine.AddParams, value string) error {
		params.Trackers = generic.AppendUnique(params.Trackers, splitList(value)...)
		return nil
	},
	"dht_nodes": func(params *engine.AddParams, value string) error {
		var nodes []engine.DHTNode
		for _, item := range splitList(value) {
			host, portStr, err := net.SplitHostPort(item)
			if err != nil {
				return fmt.Errorf("%w: DHT node %q: %v", ErrInvalidValue, item, err)
			}
			port, err := strconv.Atoi(portStr)
			if err != nil || port <= 0 || port > 65535 {
				return fmt.Errorf("%w: DHT node %q: bad port", ErrInvalidValue, item)
			}
			nodes = append(nodes, engine.DHTNode{Host: host, Port: port})
		}
		params.DHTNodes = generic.AppendUnique(params.DHTNodes, nodes...)
		return nil
	},
	"name": func(params *engine.AddParams, value string) error {
		params.Name = value
		return nil
	},
	"save_path": func(params *engine.AddParams, value string) error {
		path, err := filepath.Abs(value)
		if err != nil {
			return fmt.Errorf("%w: save_path %q: %v", ErrInvalidValue, value, err)
		}
		params.SavePath = path
		return nil
	},
	"storage_mode": func(params *engine.AddParams, value string) error {
		mode, err := engine.ParseStorageMode(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		params.StorageMode = mode
		return nil
	},
	"flags": func(params *engine.AddParams, value string) error {
		flags, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: flags %q", ErrInvalidValue, value)
		}
		params.Flags = engine.Flags(flags)
		return nil
	},
	"max_uploads":     intOverride(func(p *engine.AddParams) *int { return &p.MaxUploads }),
	"max_connections": intOverride(func(p *engine.AddParams) *int { return &p.MaxConnections }),
	"upload_limit":    intOverride(func(p *engine.AddParams) *int { return &p.UploadLimit }),
	"download_limit":  intOverride(func(p *engine.AddParams) *int { return &p.DownloadLimit }),
}

func intOverride(field func(*engine.AddParams) *int) overrideFunc {
	return func(params *engine.AddParams, value string) error {
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, value)
		}
		*field(params) = v
		return nil
	}
}

// splitList splits a comma separated list, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// OverrideKeys lists the keys accepted by ApplyOverrides, sorted.
func OverrideKeys() []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplyOverrides applies job overrides to params in order. List keys append to what is already there, every other key
// replaces its field.
func ApplyOverrides(params *engine.AddParams, pairs []Pair) error {
	for _, p := range pairs {
		apply, ok := overrides[p.Key]
		if !ok {
			return fmt.Errorf("%w: job override %q", ErrUnknownSetting, p.Key)
		}
		if err := apply(params, p.Value); err != nil {
			return fmt.Errorf("%s: %w", p.Key, err)
		}
	}
	return nil
}

// ValidateOverrides checks pairs without changing anything.
func ValidateOverrides(pairs []Pair) error {
	var scratch engine.AddParams
	return ApplyOverrides(&scratch, pairs)
}
