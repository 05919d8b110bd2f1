//go:build fuzz
// +build fuzz

package marc

import (
	"testing"
)

// FuzzBuilder_RoundTrip checks that whatever the Builder accepts decodes back unchanged
func FuzzBuilder_RoundTrip(f *testing.F) {
	f.Add("12345", "a", "Mustermann, Max", "10")
	f.Add("", "b", "", "  ")
	f.Add("PPN", "0", "mit Hegels eigenhändigen Notizen", " 7")

	f.Fuzz(func(t *testing.T, control, code, value, indicators string) {
		b := NewBuilder()
		if err := b.AddControlField("001", control); err != nil {
			t.Skip("control value rejected")
		}
		if err := b.AddDataField("245", indicators, []Subfield{{Code: code, Value: value}}); err != nil {
			t.Skip("data field rejected")
		}
		data, err := b.Build()
		if err != nil {
			t.Skip("record rejected")
		}

		rec := NewRecord(data)
		fields, err := rec.Select("")
		if err != nil {
			t.Fatalf("Select failed on built record: %v", err)
		}
		if got := fields[ControlKey("001")][0].Value; got != control {
			t.Errorf("control mismatch: got %q, want %q", got, control)
		}
		sf := fields[DataKey("245", indicators)][0].Subfields[0]
		if sf.Code != code || sf.Value != value {
			t.Errorf("subfield mismatch: got %q/%q, want %q/%q", sf.Code, sf.Value, code, value)
		}
	})
}

// FuzzRecord_Select checks that arbitrary input never panics the decoder
func FuzzRecord_Select(f *testing.F) {
	f.Add(fixtureRecord())
	f.Add([]byte("00025nam a2200025uu 4500\x1e"))
	f.Add([]byte("00010nam"))

	f.Fuzz(func(t *testing.T, data []byte) {
		rec := NewRecord(data)
		_, _ = rec.Select("")
		_ = rec.Validate()
	})
}
