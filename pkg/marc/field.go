package marc

// Subfield is a single coded value within a data field. Code is one byte.
type Subfield struct {
	Code  string `json:"code" yaml:"code"`
	Value string `json:"value" yaml:"value"`
}

// Field is one decoded occurrence of a field. Control fields carry Value, data
// fields carry Subfields in the order they appear in the record.
type Field struct {
	Value     string     `json:"value,omitempty" yaml:"value,omitempty"`
	Subfields []Subfield `json:"subfields,omitempty" yaml:"subfields,omitempty"`
}

// Codes returns the values of all subfields with the given code, in order.
func (f Field) Codes(code string) []string {
	var values []string
	for _, sf := range f.Subfields {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}
	return values
}

func (f Field) clone() Field {
	if f.Subfields == nil {
		return f
	}
	c := f
	c.Subfields = make([]Subfield, len(f.Subfields))
	copy(c.Subfields, f.Subfields)
	return c
}

// Selection maps each matched key to its occurrences in record order.
type Selection map[Key][]Field

// Keys returns the selected keys, control fields first, each group in
// ascending canonical order.
func (s Selection) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}
