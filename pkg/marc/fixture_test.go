package marc

import (
	"fmt"
	"strings"
)

type rawField struct {
	tag  string
	body string
}

// assemble lays out a record by hand: every field terminated, directory in the
// given order, and a trailing record terminator as found in exchange files.
func assemble(fields ...rawField) []byte {
	var dir, data strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&dir, "%s%04d%05d", f.tag, len(f.body)+1, data.Len())
		data.WriteString(f.body)
		data.WriteByte(FieldTerminator)
	}
	base := LeaderLength + dir.Len() + 1
	total := base + data.Len() + 1
	leader := fmt.Sprintf("%05dnam a22%05d cb4500", total, base)
	return []byte(leader + dir.String() + "\x1e" + data.String() + "\x1d")
}

const (
	title245a = "Grundlinien der Philosophie des Rechts oder Naturrecht und Staatswissenschaft im Grundrisse :"
	title245b = "mit Hegels eigenhändigen Notizen und den mündlichen Zusätzen"
)

func fixtureRecord() []byte {
	return assemble(
		rawField{"001", "PPN123456"},
		rawField{"005", "20180101120000.0"},
		rawField{"100", "1 \x1faHegel, Georg Wilhelm Friedrich\x1fd1770-1831"},
		rawField{"245", "10\x1fa" + title245a + "\x1fb" + title245b},
		rawField{"650", " 7\x1faRechtsphilosophie\x1f2gnd"},
		rawField{"650", " 7\x1faStaatsphilosophie\x1f2gnd"},
		rawField{"700", "1 \x1faGans, Eduard\x1f4edt\x1f4aut"},
	)
}
