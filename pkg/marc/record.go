package marc

import (
	"bytes"
	"fmt"
	"regexp"
	"sync"
)

// Record is a read-only view of one MARC21 record buffer. The directory and
// decoded fields are derived lazily on first use and memoized; a Record is
// safe for concurrent use by multiple goroutines.
type Record struct {
	data []byte

	leaderOnce sync.Once
	leader     string

	dirOnce sync.Once
	dir     *directory
	dirErr  error

	cache fieldCache
}

// NewRecord creates a record over a copy of data.
func NewRecord(data []byte) *Record {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Record{data: buf}
}

// Bytes returns a copy of the raw record buffer.
func (r *Record) Bytes() []byte {
	buf := make([]byte, len(r.data))
	copy(buf, r.data)
	return buf
}

// Leader returns the 24 byte leader, or the whole buffer if it is shorter.
func (r *Record) Leader() string {
	r.leaderOnce.Do(func() {
		n := LeaderLength
		if len(r.data) < n {
			n = len(r.data)
		}
		r.leader = string(r.data[:n])
	})
	return r.leader
}

// Entries returns the directory entries in record order.
func (r *Record) Entries() ([]DirectoryEntry, error) {
	d, err := r.directory()
	if err != nil {
		return nil, err
	}
	entries := make([]DirectoryEntry, len(d.entries))
	copy(entries, d.entries)
	return entries, nil
}

// Keys returns every distinct field key in order of first appearance.
func (r *Record) Keys() ([]Key, error) {
	d, err := r.directory()
	if err != nil {
		return nil, err
	}
	keys := make([]Key, len(d.keys))
	copy(keys, d.keys)
	return keys, nil
}

// Select returns the decoded fields whose canonical key matches pattern.
//
// The pattern is the body of an unanchored regular expression matched against
// "001" style keys for control fields and "245/10" style keys for data fields.
// Callers anchor explicitly, e.g. "^245/10$".
func (r *Record) Select(pattern string) (Selection, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return r.SelectRegexp(re)
}

// SelectRegexp is Select with a precompiled pattern.
func (r *Record) SelectRegexp(re *regexp.Regexp) (Selection, error) {
	d, err := r.directory()
	if err != nil {
		return nil, err
	}
	sel := make(Selection)
	for _, key := range d.keys {
		if !re.MatchString(key.String()) {
			continue
		}
		fields, err := r.decode(d, key)
		if err != nil {
			return nil, err
		}
		sel[key] = cloneFields(fields)
	}
	return sel, nil
}

// Field returns the occurrences of exactly key, or nil if the record has none.
func (r *Record) Field(key Key) ([]Field, error) {
	d, err := r.directory()
	if err != nil {
		return nil, err
	}
	if _, ok := d.fields[key]; !ok {
		return nil, nil
	}
	fields, err := r.decode(d, key)
	if err != nil {
		return nil, err
	}
	return cloneFields(fields), nil
}

// Validate parses the directory and decodes every field.
func (r *Record) Validate() error {
	d, err := r.directory()
	if err != nil {
		return err
	}
	for _, key := range d.keys {
		if _, err := r.decode(d, key); err != nil {
			return err
		}
	}
	return nil
}

func (r *Record) directory() (*directory, error) {
	r.dirOnce.Do(func() {
		r.dir, r.dirErr = parseDirectory(r.data)
	})
	return r.dir, r.dirErr
}

// decode returns the cached occurrences of key, decoding them on first use.
// A failed decode leaves the cache untouched.
func (r *Record) decode(d *directory, key Key) ([]Field, error) {
	name := key.String()
	if fields, ok := r.cache.Load(name); ok {
		return fields, nil
	}
	var fields []Field
	if key.IsControl() {
		fields = r.readControlField(d.fields[key])
	} else {
		var err error
		if fields, err = r.readDataField(name, d.fields[key]); err != nil {
			return nil, err
		}
	}
	return r.cache.LoadOrStore(name, fields), nil
}

func (r *Record) readControlField(locs []location) []Field {
	fields := make([]Field, 0, len(locs))
	for _, loc := range locs {
		fields = append(fields, Field{Value: string(r.data[loc.start : loc.end-1])})
	}
	return fields
}

func (r *Record) readDataField(name string, locs []location) ([]Field, error) {
	fields := make([]Field, 0, len(locs))
	for _, loc := range locs {
		last := loc.end - 1
		cursor := loc.start + 2
		var subfields []Subfield
		for {
			if cursor >= last || r.data[cursor] != SubfieldDelimiter {
				return nil, malformed(cursor, name, "missing subfield delimiter")
			}
			cursor++
			if cursor >= last {
				return nil, malformed(cursor, name, "subfield delimiter without code")
			}
			code := string(r.data[cursor : cursor+1])
			cursor++

			var value []byte
			if next := bytes.IndexByte(r.data[cursor:last], SubfieldDelimiter); next >= 0 {
				value = r.data[cursor : cursor+next]
				cursor += next
			} else {
				value = r.data[cursor:last]
				cursor = last
			}
			subfields = append(subfields, Subfield{Code: code, Value: string(value)})
			if cursor >= last {
				break
			}
		}
		fields = append(fields, Field{Subfields: subfields})
	}
	return fields, nil
}

func cloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f.clone()
	}
	return out
}
