package marc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_EmptyRecord(t *testing.T) {
	b := NewBuilder()

	data, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "00025nam a2200025uu 4500\x1e", string(data))

	rec := NewRecord(data)
	assert.Equal(t, "00025nam a2200025uu 4500", rec.Leader())
	fields, err := rec.Select("")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestBuilder_ControlFields(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddControlField("001", "12345"))
	require.NoError(t, b.AddControlField("003", "DE-23"))

	rec, err := b.BuildRecord()
	require.NoError(t, err)

	fields, err := rec.Select("001|003")
	require.NoError(t, err)
	assert.Equal(t, Selection{
		ControlKey("001"): {{Value: "12345"}},
		ControlKey("003"): {{Value: "DE-23"}},
	}, fields)
}

func TestBuilder_DataField(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddDataField("100", "3 ", []Subfield{{Code: "a", Value: "Mustermann, Max"}}))

	rec, err := b.BuildRecord()
	require.NoError(t, err)

	fields, err := rec.Select("100")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, []Field{{Subfields: []Subfield{{Code: "a", Value: "Mustermann, Max"}}}}, fields[DataKey("100", "3 ")])
}

func TestBuilder_Layout(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddDataField("100", "3 ", []Subfield{{Code: "a", Value: "Mustermann, Max"}}))
	require.NoError(t, b.AddControlField("001", "12345"))

	data, err := b.Build()
	require.NoError(t, err)

	want := "00075nam a2200049uu 4500" +
		"001000600000" +
		"100002000006" +
		"\x1e" +
		"12345\x1e" +
		"3 \x1faMustermann, Max\x1e"
	assert.Equal(t, want, string(data))
}

func TestBuilder_RoundTrip(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddDataField("650", " 7", []Subfield{{Code: "a", Value: "Rechtsphilosophie"}, {Code: "2", Value: "gnd"}}))
	require.NoError(t, b.AddControlField("005", "20180101120000.0"))
	require.NoError(t, b.AddDataField("245", "10", []Subfield{{Code: "a", Value: title245a}, {Code: "b", Value: title245b}}))
	require.NoError(t, b.AddControlField("001", "PPN123456"))
	require.NoError(t, b.AddDataField("650", " 7", []Subfield{{Code: "a", Value: "Staatsphilosophie"}}))
	require.NoError(t, b.AddDataField("650", "07", []Subfield{{Code: "a", Value: "Naturrecht"}}))
	require.NoError(t, b.AddControlField("001", "second"))

	rec, err := b.BuildRecord()
	require.NoError(t, err)
	require.NoError(t, rec.Validate())

	fields, err := rec.Select("")
	require.NoError(t, err)
	assert.Equal(t, Selection{
		ControlKey("001"): {{Value: "PPN123456"}, {Value: "second"}},
		ControlKey("005"): {{Value: "20180101120000.0"}},
		DataKey("245", "10"): {{Subfields: []Subfield{{Code: "a", Value: title245a}, {Code: "b", Value: title245b}}}},
		DataKey("650", " 7"): {
			{Subfields: []Subfield{{Code: "a", Value: "Rechtsphilosophie"}, {Code: "2", Value: "gnd"}}},
			{Subfields: []Subfield{{Code: "a", Value: "Staatsphilosophie"}}},
		},
		DataKey("650", "07"): {{Subfields: []Subfield{{Code: "a", Value: "Naturrecht"}}}},
	}, fields)

	entries, err := rec.Entries()
	require.NoError(t, err)
	tags := make([]string, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, e.Tag)
	}
	assert.Equal(t, []string{"001", "001", "005", "245", "650", "650", "650"}, tags)

	keys, err := rec.Keys()
	require.NoError(t, err)
	assert.Equal(t, DataKey("650", " 7"), keys[3])
	assert.Equal(t, DataKey("650", "07"), keys[4])
}

func TestBuilder_AddDataFieldRejected(t *testing.T) {
	testCases := []struct {
		name       string
		tag        string
		indicators string
		subfields  []Subfield
	}{
		{"one character indicators", "245", "1", []Subfield{{Code: "a", Value: "x"}}},
		{"three character indicators", "245", "100", []Subfield{{Code: "a", Value: "x"}}},
		{"letter indicator", "245", "1a", []Subfield{{Code: "a", Value: "x"}}},
		{"control tag", "009", "10", []Subfield{{Code: "a", Value: "x"}}},
		{"leading zero tag", "099", "10", []Subfield{{Code: "a", Value: "x"}}},
		{"four digit tag", "2450", "10", []Subfield{{Code: "a", Value: "x"}}},
		{"alphabetic tag", "abc", "10", []Subfield{{Code: "a", Value: "x"}}},
		{"no subfields", "245", "10", nil},
		{"empty code", "245", "10", []Subfield{{Code: "a", Value: "x"}, {Code: "", Value: "y"}}},
		{"two character code", "245", "10", []Subfield{{Code: "ab", Value: "x"}}},
		{"multibyte code", "245", "10", []Subfield{{Code: "ä", Value: "x"}}},
		{"delimiter as code", "245", "10", []Subfield{{Code: "\x1f", Value: "x"}}},
		{"terminator in value", "245", "10", []Subfield{{Code: "a", Value: "x"}, {Code: "b", Value: "y\x1ez"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder()
			require.NoError(t, b.AddDataField("100", "1 ", []Subfield{{Code: "a", Value: "kept"}}))
			before, err := b.Build()
			require.NoError(t, err)

			err = b.AddDataField(tc.tag, tc.indicators, tc.subfields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			after, err := b.Build()
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestBuilder_AddControlFieldRejected(t *testing.T) {
	for _, tag := range []string{"000", "010", "01", "0011", "245", ""} {
		t.Run("tag="+tag, func(t *testing.T) {
			b := NewBuilder()
			err := b.AddControlField(tag, "value")
			assert.True(t, errors.Is(err, ErrInvalidInput))
			data, err := b.Build()
			require.NoError(t, err)
			assert.Len(t, data, 25)
		})
	}

	b := NewBuilder()
	err := b.AddControlField("001", "a\x1fb")
	var ierr *InvalidInputError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "control field 001 value", ierr.Field)
}

func TestBuilder_SubfieldsAreCopied(t *testing.T) {
	b := NewBuilder()
	subfields := []Subfield{{Code: "a", Value: "original"}}
	require.NoError(t, b.AddDataField("500", "  ", subfields))
	subfields[0].Value = "changed"

	rec, err := b.BuildRecord()
	require.NoError(t, err)
	fields, err := rec.Field(DataKey("500", "  "))
	require.NoError(t, err)
	assert.Equal(t, "original", fields[0].Subfields[0].Value)
}

func TestBuilder_BuildKeepsStateAndResetClears(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetLeaderValue(5, "c"))
	require.NoError(t, b.AddControlField("001", "1"))

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, byte('c'), first[5])

	b.Reset()
	assert.Equal(t, DefaultLeader, b.Leader())
	data, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "00025nam a2200025uu 4500\x1e", string(data))

	require.NoError(t, b.AddControlField("003", "DE-23"))
	rec, err := b.BuildRecord()
	require.NoError(t, err)
	fields, err := rec.Select("")
	require.NoError(t, err)
	assert.Equal(t, []Key{ControlKey("003")}, fields.Keys())
}

func TestBuilder_SetLeaderValue(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetLeaderValue(6, "m"))
	require.NoError(t, b.SetLeaderValue(17, " "))
	require.NoError(t, b.SetLeaderValue(23, "0"))
	assert.Equal(t, "-----nmm a22----- u 4500"[:17], b.Leader()[:17])

	data, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "00025nmm a2200025 u 4500", string(data[:LeaderLength]))

	for _, pos := range []int{-1, 0, 4, 12, 16, 24} {
		assert.True(t, errors.Is(b.SetLeaderValue(pos, "x"), ErrInvalidInput), "position %d", pos)
	}
	assert.True(t, errors.Is(b.SetLeaderValue(5, "ab"), ErrInvalidInput))
	assert.True(t, errors.Is(b.SetLeaderValue(5, ""), ErrInvalidInput))
	assert.True(t, errors.Is(b.SetLeaderValue(5, "\x1d"), ErrInvalidInput))
}

func TestBuilder_SetLeader(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SetLeaderValue(5, "d"))
	require.NoError(t, b.SetLeader("99999cam a2299999 i 4500"))
	assert.Equal(t, "-----cam a22----- i 4500", b.Leader())

	data, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "00025cam a2200025 i 4500", string(data[:LeaderLength]))

	assert.True(t, errors.Is(b.SetLeader("short"), ErrInvalidInput))
	assert.True(t, errors.Is(b.SetLeader("-----c\x1em a22----- i 4500"), ErrInvalidInput))
	assert.Equal(t, "-----cam a22----- i 4500", b.Leader())

	b.Reset()
	assert.Equal(t, DefaultLeader, b.Leader())
}

func TestBuilder_Limits(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddControlField("001", strings.Repeat("x", MaxFieldLength)))
	_, err := b.Build()
	assert.True(t, errors.Is(err, ErrInvalidInput))

	b.Reset()
	require.NoError(t, b.AddControlField("001", strings.Repeat("x", MaxFieldLength-1)))
	data, err := b.Build()
	require.NoError(t, err)
	assert.NoError(t, NewRecord(data).Validate())

	b.Reset()
	for i := 0; i < 12; i++ {
		require.NoError(t, b.AddDataField("500", "  ", []Subfield{{Code: "a", Value: strings.Repeat("y", 9000)}}))
	}
	_, err = b.Build()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
