// Package marcxml renders decoded MARC21 records as MARC-XML (MARC21 slim).
package marcxml

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ssargent/marc21/pkg/marc"
)

// Namespace is the MARC21 slim schema namespace.
const Namespace = "http://www.loc.gov/MARC21/slim"

var (
	controlFields = regexp.MustCompile(`^00[0-9]$`)
	dataFields    = regexp.MustCompile(`^[0-9]{3}/`)
)

// Marshal returns the MARC-XML representation of rec.
func Marshal(rec *marc.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders rec to w as a single <record> element. Control fields come
// first, then data fields, each group ordered by key and then occurrence.
// Subfields keep their position within the field.
func Write(w io.Writer, rec *marc.Record) error {
	control, err := rec.SelectRegexp(controlFields)
	if err != nil {
		return err
	}
	data, err := rec.SelectRegexp(dataFields)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<record xmlns="%s">`, Namespace)
	fmt.Fprintf(bw, `<leader>%s</leader>`, Escape(rec.Leader()))
	for _, key := range control.Keys() {
		for _, f := range control[key] {
			fmt.Fprintf(bw, `<controlfield tag="%s">%s</controlfield>`, Escape(key.Tag), Escape(f.Value))
		}
	}
	for _, key := range data.Keys() {
		ind1, ind2 := key.Indicators[:1], key.Indicators[1:]
		for _, f := range data[key] {
			fmt.Fprintf(bw, `<datafield tag="%s" ind1="%s" ind2="%s">`, Escape(key.Tag), Escape(ind1), Escape(ind2))
			for _, sf := range f.Subfields {
				fmt.Fprintf(bw, `<subfield code="%s">%s</subfield>`, Escape(sf.Code), Escape(sf.Value))
			}
			bw.WriteString(`</datafield>`)
		}
	}
	bw.WriteString(`</record>`)
	return bw.Flush()
}

// Escape replaces the five predefined XML entities and drops characters, and
// invalid UTF-8 bytes, that XML 1.0 does not allow.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			if isChar(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// isChar reports whether r matches the XML 1.0 Char production.
func isChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
