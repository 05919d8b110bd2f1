// Package marc decodes and encodes MARC21 bibliographic records in their
// binary exchange format.
//
// # Record Format
//
// A record is a leader, a directory and a data section:
//
//	[Leader(24)][Directory(12*n)][0x1E][Field 0x1E]...[Field 0x1E]
//
// Leader:
//   - bytes 0-4: record length, zero padded decimal
//   - bytes 12-16: base address of data, zero padded decimal
//   - all other bytes are opaque and preserved verbatim
//
// Each directory entry is tag(3) + length(4) + offset(5), where length includes
// the field terminator and offset is relative to the base address. The base
// address equals 24 + len(directory) + 1.
//
// Control fields (tags 001-009) hold a single value. Data fields start with two
// indicator characters followed by one or more subfields, each introduced by
// the subfield delimiter 0x1F and a one byte code.
//
// # Usage
//
// Building a record:
//
//	b := marc.NewBuilder()
//	if err := b.AddControlField("001", "12345"); err != nil {
//	    return err
//	}
//	if err := b.AddDataField("245", "10", []marc.Subfield{{Code: "a", Value: "Title"}}); err != nil {
//	    return err
//	}
//	data, err := b.Build()
//
// Reading it back:
//
//	rec := marc.NewRecord(data)
//	fields, err := rec.Select("^245/10$")
//
// Select patterns are regular expressions matched against canonical keys:
// "001" for control fields, "245/10" (tag, slash, indicators) for data fields.
//
// # Thread Safety
//
// Record is immutable after creation. Its directory and decoded fields are
// computed on first access and memoized, so a Record may be shared between
// goroutines. Builder is meant for a single goroutine.
package marc
