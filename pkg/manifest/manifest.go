// Package manifest describes MARC records as YAML or JSON documents that can
// drive a marc.Builder, and dumps decoded records back into that form.
//
//	leader:
//	  "6": m
//	fields:
//	  - tag: "001"
//	    value: "12345"
//	  - tag: "245"
//	    indicators: "10"
//	    subfields:
//	      - {code: a, value: "Title :"}
//	      - {code: b, value: "subtitle"}
package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ssargent/marc21/pkg/marc"
	"gopkg.in/yaml.v3"
)

// Manifest is a serializable list of fields plus leader patches. Leader keys
// are decimal positions.
type Manifest struct {
	Leader map[string]string `yaml:"leader,omitempty" json:"leader,omitempty"`
	Fields []FieldSpec       `yaml:"fields" json:"fields"`
}

// FieldSpec is one field occurrence. Tags starting with "00" are control
// fields and use Value; all others use Indicators and Subfields.
type FieldSpec struct {
	Tag        string          `yaml:"tag" json:"tag"`
	Indicators string          `yaml:"indicators,omitempty" json:"indicators,omitempty"`
	Value      string          `yaml:"value,omitempty" json:"value,omitempty"`
	Subfields  []marc.Subfield `yaml:"subfields,omitempty" json:"subfields,omitempty"`
}

// IsControl reports whether f describes a control field.
func (f FieldSpec) IsControl() bool {
	return strings.HasPrefix(f.Tag, "00")
}

// Parse decodes a YAML (or JSON) manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Apply patches the leader and queues every field on b, in manifest order.
// On error b keeps whatever was queued before the failing entry.
func (m *Manifest) Apply(b *marc.Builder) error {
	positions := make([]string, 0, len(m.Leader))
	for pos := range m.Leader {
		positions = append(positions, pos)
	}
	sort.Strings(positions)
	for _, pos := range positions {
		p, err := strconv.Atoi(pos)
		if err != nil {
			return fmt.Errorf("leader position %q: %w", pos, marc.ErrInvalidInput)
		}
		if err := b.SetLeaderValue(p, m.Leader[pos]); err != nil {
			return fmt.Errorf("leader position %d: %w", p, err)
		}
	}

	for i, f := range m.Fields {
		var err error
		if f.IsControl() {
			err = b.AddControlField(f.Tag, f.Value)
		} else {
			err = b.AddDataField(f.Tag, f.Indicators, f.Subfields)
		}
		if err != nil {
			return fmt.Errorf("field %d (%s): %w", i, f.Tag, err)
		}
	}
	return nil
}

// Build applies m to a fresh builder and encodes the record.
func (m *Manifest) Build() ([]byte, error) {
	b := marc.NewBuilder()
	if err := m.Apply(b); err != nil {
		return nil, err
	}
	return b.Build()
}

// FromRecord dumps rec as a manifest. Leader positions that differ from
// marc.DefaultLeader become patches; computed positions are skipped. Fields
// are listed in builder order: control fields, then data fields by key.
func FromRecord(rec *marc.Record) (*Manifest, error) {
	sel, err := rec.Select("")
	if err != nil {
		return nil, err
	}
	return FromSelection(rec.Leader(), sel)
}

// FromSelection is FromRecord restricted to the fields in sel. Fields the
// Builder cannot write back, such as a 0xx tag outside 001-009 that decodes
// as a control field, fail with an error wrapping marc.ErrInvalidInput.
func FromSelection(leader string, sel marc.Selection) (*Manifest, error) {
	m := &Manifest{}
	for i := 0; i < len(leader) && i < len(marc.DefaultLeader); i++ {
		if i < 5 || (i >= 12 && i < 17) || leader[i] == marc.DefaultLeader[i] {
			continue
		}
		if m.Leader == nil {
			m.Leader = make(map[string]string)
		}
		m.Leader[strconv.Itoa(i)] = leader[i : i+1]
	}

	for _, key := range sel.Keys() {
		if err := key.Validate(); err != nil {
			return nil, fmt.Errorf("field %s cannot be expressed as a manifest: %w", key, err)
		}
		for _, f := range sel[key] {
			spec := FieldSpec{Tag: key.Tag}
			if key.IsControl() {
				spec.Value = f.Value
			} else {
				spec.Indicators = key.Indicators
				spec.Subfields = f.Subfields
			}
			m.Fields = append(m.Fields, spec)
		}
	}
	return m, nil
}
