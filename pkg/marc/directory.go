package marc

// DirectoryEntry describes one field occurrence. Start is relative to the base
// address of data; Length includes the field terminator.
type DirectoryEntry struct {
	Tag    string `json:"tag"`
	Length int    `json:"length"`
	Start  int    `json:"start"`
}

// location is an absolute byte range [start, end) of a field occurrence.
type location struct {
	start  int
	end    int
	length int
}

type directory struct {
	base    int
	entries []DirectoryEntry
	keys    []Key
	fields  map[Key][]location
}

func parseDirectory(data []byte) (*directory, error) {
	if len(data) < LeaderLength {
		return nil, malformed(len(data), "", "record is %d bytes, shorter than the leader", len(data))
	}
	base, err := parseDigits(data, baseAddressStart, baseAddressEnd, "")
	if err != nil {
		return nil, err
	}
	if base <= LeaderLength || base > len(data) {
		return nil, malformed(baseAddressStart, "", "base address %d outside record of %d bytes", base, len(data))
	}
	dirEnd := base - 1
	if data[dirEnd] != FieldTerminator {
		return nil, malformed(dirEnd, "", "missing directory terminator")
	}
	if (dirEnd-LeaderLength)%DirectoryEntryLength != 0 {
		return nil, malformed(LeaderLength, "", "directory length %d is not a multiple of %d", dirEnd-LeaderLength, DirectoryEntryLength)
	}

	d := &directory{
		base:    base,
		entries: make([]DirectoryEntry, 0, (dirEnd-LeaderLength)/DirectoryEntryLength),
		fields:  make(map[Key][]location),
	}
	for cursor := LeaderLength; cursor < dirEnd; cursor += DirectoryEntryLength {
		tag := string(data[cursor : cursor+3])
		length, err := parseDigits(data, cursor+3, cursor+7, tag)
		if err != nil {
			return nil, err
		}
		offset, err := parseDigits(data, cursor+7, cursor+12, tag)
		if err != nil {
			return nil, err
		}
		start := base + offset
		end := start + length
		if length < 1 || end > len(data) {
			return nil, malformed(cursor, tag, "field range [%d,%d) outside record of %d bytes", start, end, len(data))
		}
		if data[end-1] != FieldTerminator {
			return nil, malformed(end-1, tag, "field does not end with a field terminator")
		}

		var key Key
		if tag[0] == '0' {
			key = ControlKey(tag)
		} else {
			if length < 3 {
				return nil, malformed(start, tag, "data field of %d bytes cannot hold indicators", length)
			}
			key = DataKey(tag, string(data[start:start+2]))
		}
		if _, ok := d.fields[key]; !ok {
			d.keys = append(d.keys, key)
		}
		d.fields[key] = append(d.fields[key], location{start: start, end: end, length: length})
		d.entries = append(d.entries, DirectoryEntry{Tag: tag, Length: length, Start: offset})
	}
	return d, nil
}

// parseDigits reads data[from:to] as an unsigned decimal number.
func parseDigits(data []byte, from, to int, key string) (int, error) {
	n := 0
	for i := from; i < to; i++ {
		c := data[i]
		if c < '0' || c > '9' {
			return 0, malformed(i, key, "expected digit, found %q", c)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
