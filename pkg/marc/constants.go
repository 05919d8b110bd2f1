package marc

// Reserved bytes structuring a MARC21 record
const (
	SubfieldDelimiter byte = 0x1F
	FieldTerminator   byte = 0x1E
	RecordTerminator  byte = 0x1D
)

const (
	// LeaderLength is the fixed size of the record leader.
	LeaderLength = 24

	// DirectoryEntryLength is the size of a single directory entry:
	// tag(3) + length(4) + offset(5).
	DirectoryEntryLength = 12

	// MaxRecordLength is the largest record length expressible in the leader.
	MaxRecordLength = 99999

	// MaxFieldLength is the largest field length expressible in a directory entry.
	MaxFieldLength = 9999

	// DefaultLeader is the leader a Builder starts from. The record length and
	// base address positions are computed by Build.
	DefaultLeader = "-----nam a22-----uu 4500"
)

// leader subranges interpreted by the codec
const (
	recordLengthStart = 0
	recordLengthEnd   = 5
	baseAddressStart  = 12
	baseAddressEnd    = 17
)
