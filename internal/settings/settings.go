// Package settings turns ordered key/value pairs into engine settings and job overrides. Every session setting name is
// resolved once, when the Registry is built, to a type and a parser.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid value")
)

// Pair is one caller-supplied setting. Lists of pairs keep their order, which is the order they are applied in.
type Pair struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

func (p Pair) String() string {
	return p.Key + "=" + p.Value
}

// ParsePair splits "key=value".
func ParsePair(s string) (Pair, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return Pair{}, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidValue, s)
	}
	return Pair{Key: key, Value: value}, nil
}

// Setting is one registry entry.
type Setting struct {
	Name string
	Type engine.SettingType
	// assign parses value and stores it in pack; a nil pack only validates.
	assign func(pack *engine.SettingsPack, value string) error
}

// Validate checks value without storing it.
func (s Setting) Validate(value string) error {
	return s.assign(nil, value)
}

func (s Setting) Assign(pack *engine.SettingsPack, value string) error {
	return s.assign(pack, value)
}

// Registry maps setting names to their type and parser.
type Registry struct {
	settings map[string]Setting
}

// NewRegistry builds a registry for the settings an engine describes.
func NewRegistry(descriptors []engine.SettingDescriptor) *Registry {
	r := &Registry{settings: make(map[string]Setting, len(descriptors))}
	for _, d := range descriptors {
		r.settings[d.Name] = newSetting(d)
	}
	return r
}

func newSetting(d engine.SettingDescriptor) Setting {
	name := d.Name
	s := Setting{Name: name, Type: d.Type}
	switch d.Type {
	case engine.SettingString:
		s.assign = func(pack *engine.SettingsPack, value string) error {
			if pack != nil {
				pack.SetString(name, value)
			}
			return nil
		}
	case engine.SettingBool:
		s.assign = func(pack *engine.SettingsPack, value string) error {
			v, err := ParseBool(value)
			if err != nil {
				return fmt.Errorf("%q: %w", name, err)
			}
			if pack != nil {
				pack.SetBool(name, v)
			}
			return nil
		}
	case engine.SettingInt:
		parse := ParseInt
		if name == "alert_mask" {
			parse = ParseAlertMask
		}
		s.assign = func(pack *engine.SettingsPack, value string) error {
			v, err := parse(value)
			if err != nil {
				return fmt.Errorf("%q: %w", name, err)
			}
			if pack != nil {
				pack.SetInt(name, v)
			}
			return nil
		}
	default:
		s.assign = func(*engine.SettingsPack, string) error {
			return fmt.Errorf("%w: %q has unsupported type %v", ErrUnknownSetting, name, d.Type)
		}
	}
	return s
}

func (r *Registry) Lookup(name string) (Setting, bool) {
	s, ok := r.settings[name]
	return s, ok
}

// Descriptors lists every known setting, sorted by name.
func (r *Registry) Descriptors() []engine.SettingDescriptor {
	list := make([]engine.SettingDescriptor, 0, len(r.settings))
	for _, s := range r.settings {
		list = append(list, engine.SettingDescriptor{Name: s.Name, Type: s.Type})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *Registry) assign(pack *engine.SettingsPack, p Pair) error {
	s, ok := r.settings[p.Key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, p.Key)
	}
	return s.assign(pack, p.Value)
}

// Validate checks every pair, reporting all failures together.
func (r *Registry) Validate(pairs []Pair) error {
	var result *multierror.Error
	for i, p := range pairs {
		if err := r.assign(nil, p); err != nil {
			result = multierror.Append(result, fmt.Errorf("item %d: %w", i+1, err))
		}
	}
	return result.ErrorOrNil()
}

// Apply assigns pairs to pack in order, stopping at the first failure. Pairs before the failing one stay applied.
func (r *Registry) Apply(pack *engine.SettingsPack, pairs []Pair) error {
	for i, p := range pairs {
		if err := r.assign(pack, p); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// ParseBool accepts 1/on/true and 0/off/false.
func ParseBool(value string) (bool, error) {
	switch value {
	case "1", "on", "true":
		return true, nil
	case "0", "off", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q, expected 0 or 1", ErrInvalidValue, value)
	}
}

// Enums are the named values accepted by any int setting.
var Enums = map[string]int{
	"no_piece_suggestions": 0,
	"suggest_read_cache":   1,
	"fixed_slots_choker":   0,
	"rate_based_choker":    2,
	"round_robin":          0,
	"fastest_upload":       1,
	"anti_leech":           2,
	"enable_os_cache":      0,
	"disable_os_cache":     2,
	"write_through":        3,
	"prefer_tcp":           0,
	"peer_proportional":    1,
	"pe_forced":            0,
	"pe_enabled":           1,
	"pe_disabled":          2,
	"pe_plaintext":         1,
	"pe_rc4":               2,
	"pe_both":              3,
	"none":                 0,
	"socks4":               1,
	"socks5":               2,
	"socks5_pw":            3,
	"http":                 4,
	"http_pw":              5,
}

// ParseInt accepts a name from Enums, or a decimal integer.
func ParseInt(value string) (int, error) {
	if v, ok := Enums[value]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q, expected integer or enum value", ErrInvalidValue, value)
	}
	return v, nil
}

// ParseAlertMask accepts a name from Enums, or a comma separated list of alert category names and integers which are
// OR'd together.
func ParseAlertMask(value string) (int, error) {
	if v, ok := Enums[value]; ok {
		return v, nil
	}
	var mask engine.AlertCategory
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if c, ok := engine.AlertCategories[item]; ok {
			mask |= c
		} else if n, err := strconv.ParseUint(item, 10, 32); err == nil {
			mask |= engine.AlertCategory(n)
		} else {
			return 0, fmt.Errorf("%w: alert category %q", ErrInvalidValue, item)
		}
	}
	return int(mask), nil
}
