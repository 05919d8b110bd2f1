package marc

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const reservedBytes = "\x1d\x1e\x1f"

// Builder accumulates fields and encodes them into a MARC21 record. A Builder
// is not safe for concurrent mutation.
type Builder struct {
	leader  []byte
	control map[string][]string
	data    map[Key][][]Subfield
}

// NewBuilder creates a builder starting from DefaultLeader.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset restores the default leader and drops all pending fields.
func (b *Builder) Reset() {
	b.leader = []byte(DefaultLeader)
	b.control = make(map[string][]string)
	b.data = make(map[Key][][]Subfield)
}

// Leader returns the current leader template. Record length and base address
// positions are only filled in by Build.
func (b *Builder) Leader() string {
	return string(b.leader)
}

// SetLeaderValue patches a single leader position. Positions 0-4 and 12-16
// are computed by Build and cannot be set.
func (b *Builder) SetLeaderValue(pos int, value string) error {
	if pos < 0 || pos >= LeaderLength {
		return invalid("leader position", strconv.Itoa(pos), "must be within 0..%d", LeaderLength-1)
	}
	if pos < recordLengthEnd || (pos >= baseAddressStart && pos < baseAddressEnd) {
		return invalid("leader position", strconv.Itoa(pos), "is computed when the record is built")
	}
	if len(value) != 1 {
		return invalid("leader value", value, "must be a single character")
	}
	if strings.Contains(reservedBytes, value) {
		return invalid("leader value", value, "must not be a reserved byte")
	}
	b.leader[pos] = value[0]
	return nil
}

// SetLeader applies every settable position of leader, which must be
// LeaderLength bytes long. Computed positions in leader are ignored.
func (b *Builder) SetLeader(leader string) error {
	if len(leader) != LeaderLength {
		return invalid("leader", leader, "must be %d bytes", LeaderLength)
	}
	next := []byte(DefaultLeader)
	for pos := 0; pos < LeaderLength; pos++ {
		if pos < recordLengthEnd || (pos >= baseAddressStart && pos < baseAddressEnd) {
			continue
		}
		if strings.IndexByte(reservedBytes, leader[pos]) >= 0 {
			return invalid("leader value", leader[pos:pos+1], "must not be a reserved byte")
		}
		next[pos] = leader[pos]
	}
	b.leader = next
	return nil
}

// AddControlField queues a control field occurrence. The tag must match 00[1-9].
func (b *Builder) AddControlField(tag, value string) error {
	if err := ControlKey(tag).Validate(); err != nil {
		return err
	}
	if err := checkValue("control field "+tag+" value", value); err != nil {
		return err
	}
	b.control[tag] = append(b.control[tag], value)
	return nil
}

// AddDataField queues a data field occurrence. The tag must match
// [1-9][0-9]{2}, indicators [0-9 ]{2}, and every subfield code must be a single
// character. Nothing is queued unless the whole call is valid.
func (b *Builder) AddDataField(tag, indicators string, subfields []Subfield) error {
	key := DataKey(tag, indicators)
	if err := key.Validate(); err != nil {
		return err
	}
	if len(subfields) == 0 {
		return invalid("data field", key.String(), "at least one subfield is required")
	}
	for i, sf := range subfields {
		if len(sf.Code) != 1 {
			return invalid(fmt.Sprintf("subfield %d code", i), sf.Code, "must be a single character")
		}
		if strings.Contains(reservedBytes, sf.Code) {
			return invalid(fmt.Sprintf("subfield %d code", i), sf.Code, "must not be a reserved byte")
		}
		if err := checkValue(fmt.Sprintf("subfield %d value", i), sf.Value); err != nil {
			return err
		}
	}
	queued := make([]Subfield, len(subfields))
	copy(queued, subfields)
	b.data[key] = append(b.data[key], queued)
	return nil
}

// Build encodes the pending fields. Control fields are emitted first in tag
// order, then data fields ordered by "tag/indicators"; occurrences of one key
// keep insertion order. Build does not clear the builder.
func (b *Builder) Build() ([]byte, error) {
	var dir, data bytes.Buffer

	tags := make([]string, 0, len(b.control))
	for tag := range b.control {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		for _, value := range b.control[tag] {
			if err := appendField(&dir, &data, tag, []byte(value)); err != nil {
				return nil, err
			}
		}
	}

	keys := make([]Key, 0, len(b.data))
	for key := range b.data {
		keys = append(keys, key)
	}
	sortKeys(keys)
	for _, key := range keys {
		for _, subfields := range b.data[key] {
			payload := make([]byte, 0, 64)
			payload = append(payload, key.Indicators...)
			for _, sf := range subfields {
				payload = append(payload, SubfieldDelimiter)
				payload = append(payload, sf.Code...)
				payload = append(payload, sf.Value...)
			}
			if err := appendField(&dir, &data, key.Tag, payload); err != nil {
				return nil, err
			}
		}
	}

	recordLength := LeaderLength + dir.Len() + 1 + data.Len()
	if recordLength > MaxRecordLength {
		return nil, invalid("record length", strconv.Itoa(recordLength), "exceeds %d bytes", MaxRecordLength)
	}

	out := make([]byte, 0, recordLength)
	out = fmt.Appendf(out, "%05d", recordLength)
	out = append(out, b.leader[recordLengthEnd:baseAddressStart]...)
	out = fmt.Appendf(out, "%05d", LeaderLength+1+dir.Len())
	out = append(out, b.leader[baseAddressEnd:]...)
	out = append(out, dir.Bytes()...)
	out = append(out, FieldTerminator)
	out = append(out, data.Bytes()...)
	return out, nil
}

// BuildRecord builds the pending fields and wraps the result in a Record.
func (b *Builder) BuildRecord() (*Record, error) {
	data, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Record{data: data}, nil
}

// appendField writes one terminated field to data and its entry to dir.
func appendField(dir, data *bytes.Buffer, tag string, payload []byte) error {
	length := len(payload) + 1
	if length > MaxFieldLength {
		return invalid("field "+tag+" length", strconv.Itoa(length), "exceeds %d bytes", MaxFieldLength)
	}
	fmt.Fprintf(dir, "%s%04d%05d", tag, length, data.Len())
	data.Write(payload)
	data.WriteByte(FieldTerminator)
	return nil
}

func checkValue(field, value string) error {
	if strings.ContainsAny(value, reservedBytes) {
		return invalid(field, value, "must not contain subfield delimiter, field or record terminator")
	}
	return nil
}
