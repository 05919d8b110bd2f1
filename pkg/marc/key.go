package marc

import (
	"regexp"
	"sort"
	"strings"
)

var (
	controlTagPattern = regexp.MustCompile(`^00[1-9]$`)
	dataTagPattern    = regexp.MustCompile(`^[1-9][0-9]{2}$`)
	indicatorPattern  = regexp.MustCompile(`^[0-9 ]{2}$`)
)

type keyKind uint8

const (
	controlKind keyKind = iota + 1
	dataKind
)

// Key identifies a field type within a record: a control field tag, or a data
// field tag together with its two indicators. Keys are comparable and may be
// used as map keys.
type Key struct {
	kind       keyKind
	Tag        string
	Indicators string
}

// ControlKey returns the key of a control field.
func ControlKey(tag string) Key {
	return Key{kind: controlKind, Tag: tag}
}

// DataKey returns the key of a data field with the given indicators.
func DataKey(tag, indicators string) Key {
	return Key{kind: dataKind, Tag: tag, Indicators: indicators}
}

// ParseKey parses the canonical form produced by String: "001" or "245/10".
func ParseKey(s string) (Key, error) {
	tag, ind, ok := strings.Cut(s, "/")
	if !ok {
		k := ControlKey(s)
		return k, k.Validate()
	}
	k := DataKey(tag, ind)
	return k, k.Validate()
}

// IsControl reports whether k identifies a control field.
func (k Key) IsControl() bool {
	return k.kind == controlKind
}

// String returns the canonical form matched by Record.Select.
func (k Key) String() string {
	if k.kind == dataKind {
		return k.Tag + "/" + k.Indicators
	}
	return k.Tag
}

// Validate checks k against the rules the Builder enforces.
func (k Key) Validate() error {
	switch k.kind {
	case controlKind:
		if !controlTagPattern.MatchString(k.Tag) {
			return invalid("control field tag", k.Tag, "must match 00[1-9]")
		}
	case dataKind:
		if !dataTagPattern.MatchString(k.Tag) {
			return invalid("data field tag", k.Tag, "must match [1-9][0-9]{2}")
		}
		if !indicatorPattern.MatchString(k.Indicators) {
			return invalid("indicators", k.Indicators, "must match [0-9 ]{2}")
		}
	default:
		return invalid("key", k.Tag, "zero key")
	}
	return nil
}

// less orders control keys before data keys, then by canonical form.
func (k Key) less(o Key) bool {
	if k.kind != o.kind {
		return k.kind < o.kind
	}
	return k.String() < o.String()
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}
