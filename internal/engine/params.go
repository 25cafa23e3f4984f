package engine

import (
	"fmt"
	"sort"
)

type StorageMode uint8

const (
	StorageModeSparse StorageMode = iota
	StorageModeAllocate
)

var storageModeNames = map[string]StorageMode{
	"storage_mode_sparse":   StorageModeSparse,
	"storage_mode_allocate": StorageModeAllocate,
}

// ParseStorageMode accepts the names used in job overrides.
func ParseStorageMode(s string) (StorageMode, error) {
	if m, ok := storageModeNames[s]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown storage mode %q", s)
}

func (m StorageMode) String() string {
	for name, v := range storageModeNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// AddParams is everything needed to add a job: the parsed job source, resume state if any, and caller overrides.
type AddParams struct {
	InfoHashes InfoHashes `json:"info_hashes"`
	Name       string     `json:"name,omitempty"`
	SavePath   string     `json:"save_path,omitempty"`
	Trackers   []string   `json:"trackers,omitempty"`
	DHTNodes   []DHTNode  `json:"dht_nodes,omitempty"`
	WebSeeds   []string   `json:"web_seeds,omitempty"`
	// InfoBytes is the raw info dictionary, empty for magnet links until metadata is received.
	InfoBytes      []byte      `json:"info_bytes,omitempty"`
	StorageMode    StorageMode `json:"storage_mode"`
	Flags          Flags       `json:"flags"`
	MaxUploads     int         `json:"max_uploads"`
	MaxConnections int         `json:"max_connections"`
	UploadLimit    int         `json:"upload_limit"`
	DownloadLimit  int         `json:"download_limit"`
	// Pieces records which pieces were complete when resume data was written.
	Pieces []bool `json:"pieces,omitempty"`
}

// Identity is the preferred identity of the job being added.
func (p AddParams) Identity() Identity {
	return p.InfoHashes.Best()
}

// Clone returns a deep copy, so overrides can be applied without touching the original.
func (p AddParams) Clone() AddParams {
	c := p
	c.Trackers = append([]string(nil), p.Trackers...)
	c.DHTNodes = append([]DHTNode(nil), p.DHTNodes...)
	c.WebSeeds = append([]string(nil), p.WebSeeds...)
	c.InfoBytes = append([]byte(nil), p.InfoBytes...)
	c.Pieces = append([]bool(nil), p.Pieces...)
	return c
}

type SettingType uint8

const (
	SettingString SettingType = iota
	SettingInt
	SettingBool
)

func (t SettingType) String() string {
	switch t {
	case SettingString:
		return "string"
	case SettingInt:
		return "int"
	case SettingBool:
		return "bool"
	default:
		return "unknown"
	}
}

type SettingDescriptor struct {
	Name string
	Type SettingType
}

// SettingsPack is a typed set of session settings, keyed by setting name.
type SettingsPack struct {
	Strings map[string]string `json:"strings,omitempty"`
	Ints    map[string]int    `json:"ints,omitempty"`
	Bools   map[string]bool   `json:"bools,omitempty"`
}

func NewSettingsPack() SettingsPack {
	return SettingsPack{
		Strings: make(map[string]string),
		Ints:    make(map[string]int),
		Bools:   make(map[string]bool),
	}
}

func (p *SettingsPack) init() {
	if p.Strings == nil {
		p.Strings = make(map[string]string)
	}
	if p.Ints == nil {
		p.Ints = make(map[string]int)
	}
	if p.Bools == nil {
		p.Bools = make(map[string]bool)
	}
}

func (p *SettingsPack) SetString(name string, value string) {
	p.init()
	p.Strings[name] = value
}

func (p *SettingsPack) SetInt(name string, value int) {
	p.init()
	p.Ints[name] = value
}

func (p *SettingsPack) SetBool(name string, value bool) {
	p.init()
	p.Bools[name] = value
}

func (p SettingsPack) GetString(name string) (string, bool) {
	v, ok := p.Strings[name]
	return v, ok
}

func (p SettingsPack) GetInt(name string) (int, bool) {
	v, ok := p.Ints[name]
	return v, ok
}

func (p SettingsPack) GetBool(name string) (bool, bool) {
	v, ok := p.Bools[name]
	return v, ok
}

func (p SettingsPack) Len() int {
	return len(p.Strings) + len(p.Ints) + len(p.Bools)
}

// Merge copies every setting in other over p.
func (p *SettingsPack) Merge(other SettingsPack) {
	for k, v := range other.Strings {
		p.SetString(k, v)
	}
	for k, v := range other.Ints {
		p.SetInt(k, v)
	}
	for k, v := range other.Bools {
		p.SetBool(k, v)
	}
}

func (p SettingsPack) Clone() SettingsPack {
	c := NewSettingsPack()
	c.Merge(p)
	return c
}

// Names returns the sorted names of every setting in the pack.
func (p SettingsPack) Names() []string {
	names := make([]string, 0, p.Len())
	for k := range p.Strings {
		names = append(names, k)
	}
	for k := range p.Ints {
		names = append(names, k)
	}
	for k := range p.Bools {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SessionParams is the session-wide state an engine is created from, and what gets written to the session state file.
type SessionParams struct {
	Settings SettingsPack `json:"settings"`
	// DHTState is an engine-specific encoding of the DHT node state, opaque to the session layer.
	DHTState []byte `json:"dht_state,omitempty"`
}
