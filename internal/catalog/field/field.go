// Package field classifies lines of the flat game database into typed
// fields and renders fields back into canonical lines. Both directions are
// driven by the single key table in schema.go.
package field

import (
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

// Kind discriminates the three field variants.
type Kind int

const (
	KindNewRecord Kind = iota
	KindSingle
	KindMulti
)

func (k Kind) String() string {
	switch k {
	case KindNewRecord:
		return "new-record"
	case KindSingle:
		return "single"
	case KindMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Field is one classified database line. Value holds the record name for
// KindNewRecord and the scalar for KindSingle; Values is only set for
// KindMulti.
type Field struct {
	Kind   Kind
	Key    string
	Value  string
	Values []string
}

// NewRecord returns the field that opens a record called name.
func NewRecord(name string) Field {
	return Field{Kind: KindNewRecord, Key: RecordStartKey, Value: name}
}

// Single returns a scalar assignment.
func Single(key, value string) Field {
	return Field{Kind: KindSingle, Key: key, Value: value}
}

// Multi returns a repeated-attribute assignment.
func Multi(key string, values []string) Field {
	return Field{Kind: KindMulti, Key: key, Values: values}
}

// SplitLine splits a line on tabs into key and value. A line without a tab is
// a key with an empty value. Segments past the second are returned in extra so
// the caller can report them.
func SplitLine(line string) (key, value string, extra []string) {
	parts := strings.Split(line, "\t")
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return parts[0], parts[1], parts[2:]
	}
}

// Classify turns one line into a Field. It has no side effects: discarded
// tab segments are handed back instead of being reported here.
func Classify(line string) (Field, []string, error) {
	key, value, extra := SplitLine(line)
	spec, ok := Lookup(key)
	if !ok {
		return Field{}, extra, &apperrors.KeyError{Key: key, Err: apperrors.ErrUnrecognizedFieldKey}
	}
	switch spec.Rule {
	case RuleRecordStart:
		return NewRecord(value), extra, nil
	case RuleScalar:
		return Single(key, value), extra, nil
	default:
		return Multi(key, splitValues(spec, value)), extra, nil
	}
}

// Parse is Classify without the discarded segments.
func Parse(line string) (Field, error) {
	f, _, err := Classify(line)
	return f, err
}

func splitValues(spec Spec, value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	sep, _ := spec.separator()
	parts := strings.Split(value, sep)
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, strings.TrimSpace(p))
	}
	return values
}

// Render returns the canonical database line for f.
func Render(f Field) string {
	switch f.Kind {
	case KindNewRecord:
		return RecordStartKey + "\t" + f.Value
	case KindSingle:
		return f.Key + "\t" + f.Value
	default:
		join := ", "
		if spec, ok := Lookup(f.Key); ok && spec.Repeated() {
			_, join = spec.separator()
		}
		return f.Key + "\t" + strings.Join(f.Values, join)
	}
}

// String renders the field as a line.
func (f Field) String() string {
	return Render(f)
}
