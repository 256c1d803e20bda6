// Package compare implements attribute-by-attribute comparison of data records, producing a
// report of every differing attribute rather than stopping at the first one.
//
// Records describe their own attributes through the Record interface, so no reflection is
// involved: each type lists its comparable fields explicitly, in a fixed order.
package compare

import (
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Field is one named attribute of a record. An absent attribute has a null Value.
type Field struct {
	Name  string
	Value ldvalue.Value
}

// Record is implemented by every type that can be compared. Two records are only comparable if
// their RecordType is the same, in which case they must also list the same field names.
type Record interface {
	RecordType() string
	Fields() []Field
}

type Mode int

const (
	// Strict treats every difference as a mismatch, including a value that is present on the
	// expected side but absent on the actual side.
	Strict Mode = iota
	// IgnoreNullActual does not fail on attributes that are absent on the actual side; they are
	// reported separately as ignored. All other differences are still mismatches.
	IgnoreNullActual
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case IgnoreNullActual:
		return "ignoring null actual values"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type FieldDiff struct {
	Name     string
	Expected ldvalue.Value
	Actual   ldvalue.Value
}

func (d FieldDiff) String() string {
	return fmt.Sprintf("%s: expected %s, actual %s", d.Name, d.Expected.JSONString(), d.Actual.JSONString())
}

// Diff is the result of a comparison.
type Diff struct {
	RecordType string
	Mode       Mode
	// Problem is set when the records could not be compared field by field at all, because one
	// of them is missing or they are of different types.
	Problem    string
	Mismatches []FieldDiff
	Ignored    []FieldDiff
}

// Compare checks actual against expected. Two nil records are equal; exactly one nil record is a
// mismatch. If the record types differ, the comparison stops there.
func Compare(expected, actual Record, mode Mode) Diff {
	d := Diff{Mode: mode}
	switch {
	case expected == nil && actual == nil:
		return d
	case expected == nil:
		d.RecordType = actual.RecordType()
		d.Problem = "expected no record, but got one"
		return d
	case actual == nil:
		d.RecordType = expected.RecordType()
		d.Problem = "expected a record, but got none"
		return d
	}

	d.RecordType = expected.RecordType()
	if actual.RecordType() != d.RecordType {
		d.Problem = fmt.Sprintf("type mismatch: expected %s, actual %s", d.RecordType, actual.RecordType())
		return d
	}

	actualFields := make(map[string]ldvalue.Value)
	for _, f := range actual.Fields() {
		actualFields[f.Name] = f.Value
	}
	for _, f := range expected.Fields() {
		av := actualFields[f.Name]
		if f.Value.Equal(av) {
			continue
		}
		fd := FieldDiff{Name: f.Name, Expected: f.Value, Actual: av}
		if mode == IgnoreNullActual && av.IsNull() {
			d.Ignored = append(d.Ignored, fd)
			continue
		}
		d.Mismatches = append(d.Mismatches, fd)
	}
	return d
}

// Equal is true if the comparison passed. Ignored fields do not affect it.
func (d Diff) Equal() bool {
	return d.Problem == "" && len(d.Mismatches) == 0
}

// MismatchedFields returns the names of all mismatched fields, in record order.
func (d Diff) MismatchedFields() []string {
	names := make([]string, 0, len(d.Mismatches))
	for _, m := range d.Mismatches {
		names = append(names, m.Name)
	}
	return names
}

// IgnoredFields returns the names of fields that were skipped because the actual value was null.
func (d Diff) IgnoredFields() []string {
	names := make([]string, 0, len(d.Ignored))
	for _, m := range d.Ignored {
		names = append(names, m.Name)
	}
	return names
}

// Err returns nil if the comparison passed, or a *MismatchError describing every mismatch.
func (d Diff) Err() error {
	if d.Equal() {
		return nil
	}
	return &MismatchError{Diff: d}
}

func (d Diff) String() string {
	var b strings.Builder
	switch {
	case d.Problem != "":
		fmt.Fprintf(&b, "%s comparison failed: %s", d.RecordType, d.Problem)
	case len(d.Mismatches) == 0:
		fmt.Fprintf(&b, "%s records are equal (%s)", d.RecordType, d.Mode)
	default:
		fmt.Fprintf(&b, "%s records differ in %d field(s) (%s):", d.RecordType, len(d.Mismatches), d.Mode)
		for _, m := range d.Mismatches {
			b.WriteString("\n  " + m.String())
		}
	}
	if len(d.Ignored) != 0 {
		fmt.Fprintf(&b, "\nignored null actual values: %s", strings.Join(d.IgnoredFields(), ", "))
	}
	return b.String()
}

type MismatchError struct {
	Diff Diff
}

func (e *MismatchError) Error() string {
	return e.Diff.String()
}
