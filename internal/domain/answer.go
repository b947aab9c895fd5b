package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// answerKind tags the shape held by an Answer.
type answerKind uint8

const (
	answerNone answerKind = iota
	answerScalar
	answerSet
)

// Answer is either a single string or a set of strings. The zero value means
// "no answer". It is used both for a question's correct answer and for a
// submitted answer.
type Answer struct {
	kind   answerKind
	values []string
}

// Scalar builds a single-string answer.
func Scalar(s string) Answer {
	return Answer{kind: answerScalar, values: []string{s}}
}

// Set builds a multi-string answer.
func Set(values ...string) Answer {
	return Answer{kind: answerSet, values: append([]string{}, values...)}
}

func (a Answer) IsZero() bool { return a.kind == answerNone }

func (a Answer) IsSet() bool { return a.kind == answerSet }

// Values returns the answer as a sequence: a scalar becomes a one-element
// slice. The returned slice is a copy.
func (a Answer) Values() []string {
	if a.kind == answerNone {
		return nil
	}
	return append([]string{}, a.values...)
}

func (a Answer) clone() Answer {
	if a.kind == answerNone {
		return Answer{}
	}
	return Answer{kind: a.kind, values: a.Values()}
}

// ScalarValue returns the string of a scalar answer.
func (a Answer) ScalarValue() (string, bool) {
	if a.kind != answerScalar {
		return "", false
	}
	return a.values[0], true
}

// String renders the answer the way feedback messages show it.
func (a Answer) String() string {
	return strings.Join(a.values, ",")
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerScalar:
		return json.Marshal(a.values[0])
	case answerSet:
		return json.Marshal(a.Values())
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, an array of strings, or null. Numbers and
// booleans are kept as their literal text; null array elements become "".
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	if data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			s, err := answerText(item)
			if err != nil {
				return err
			}
			values = append(values, s)
		}
		*a = Set(values...)
		return nil
	}
	s, err := answerText(data)
	if err != nil {
		return err
	}
	*a = Scalar(s)
	return nil
}

func answerText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", &ValidationError{Field: "answer", Message: "answer must be a string or an array of strings"}
	default:
		// number, true, false
		return string(raw), nil
	}
}

func (a Answer) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch a.kind {
	case answerScalar:
		return bson.MarshalValue(a.values[0])
	case answerSet:
		return bson.MarshalValue(a.Values())
	default:
		return bsontype.Null, nil, nil
	}
}

func (a *Answer) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*a = Answer{}
		return nil
	case bsontype.String:
		*a = Scalar(raw.StringValue())
		return nil
	case bsontype.Array:
		var values []string
		if err := raw.Unmarshal(&values); err != nil {
			return fmt.Errorf("decode answer array: %w", err)
		}
		*a = Set(values...)
		return nil
	default:
		return fmt.Errorf("decode answer: unsupported bson type %s", t)
	}
}
