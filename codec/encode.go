// Package codec maps native values to and from the tagged JSON-LD representation used on the wire.
//
// The four extended kinds (timestamps, dates, times of day and byte blobs) are carried as objects of the form
// {"@value": "<text>", "@type": "<tag>"}. Every other value is passed through structurally.
package codec

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"time"

	"github.com/spirit-labs/endbclient/errors"
	"github.com/spirit-labs/endbclient/types"
)

// TimestampLayout always writes an explicit numeric offset, so UTC is written as +00:00 and never as Z.
const TimestampLayout = "2006-01-02T15:04:05.999999999-07:00"

// timestampSecondsLayout is used for offsets that are not a whole number of minutes, such as local mean time zones.
const timestampSecondsLayout = "2006-01-02T15:04:05.999999999-07:00:00"

var timestampParseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07:00:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

var (
	rawMessageType    = reflect.TypeOf(json.RawMessage(nil))
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Tagged is the wire form of an extended scalar. Field order matters: @value is written before @type.
type Tagged struct {
	Value string `json:"@value"`
	Type  string `json:"@type"`
}

// Encode converts v into a tree that encoding/json can serialize, replacing every extended scalar, however deeply
// nested in slices, arrays, maps or pointers, with its Tagged form. Values that implement json.Marshaler or
// encoding.TextMarshaler are left for encoding/json to serialize. Encode never fails.
func Encode(v any) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case Tagged, json.RawMessage, json.Number, string, bool:
		return v
	case time.Time:
		return encodeKind(types.KindTimestamp, tv)
	case types.Date:
		return encodeKind(types.KindDate, tv)
	case types.TimeOfDay:
		return encodeKind(types.KindTime, tv)
	case []byte:
		return encodeKind(types.KindBlob, tv)
	case []any:
		if tv == nil {
			return nil
		}
		out := make([]any, len(tv))
		for i, elem := range tv {
			out[i] = Encode(elem)
		}
		return out
	case map[string]any:
		if tv == nil {
			return nil
		}
		out := make(map[string]any, len(tv))
		for k, elem := range tv {
			out[k] = Encode(elem)
		}
		return out
	}
	return encodeReflect(reflect.ValueOf(v))
}

func encodeKind(kind types.Kind, v any) Tagged {
	var text string
	switch kind {
	case types.KindTimestamp:
		text = FormatTimestamp(v.(time.Time))
	case types.KindDate:
		text = v.(types.Date).String()
	case types.KindTime:
		text = v.(types.TimeOfDay).String()
	case types.KindBlob:
		text = base64.StdEncoding.EncodeToString(v.([]byte))
	case types.KindOther:
		panic("plain values are not tagged")
	default:
		panic("unexpected kind")
	}
	return Tagged{Value: text, Type: kind.Tag()}
}

func encodeReflect(rv reflect.Value) any {
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && types.KindOf(rv.Elem().Interface()) != types.KindOther {
		return Encode(rv.Elem().Interface())
	}
	if implementsMarshaler(rv.Type()) {
		return rv.Interface()
	}
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return encodeKind(types.KindBlob, rv.Bytes())
		}
		return encodeSequence(rv)
	case reflect.Array:
		return encodeSequence(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Encode(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Encode(rv.Elem().Interface())
	default:
		return rv.Interface()
	}
}

func implementsMarshaler(t reflect.Type) bool {
	return t == rawMessageType || t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}

func encodeSequence(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = Encode(rv.Index(i).Interface())
	}
	return out
}

// Marshal returns the JSON text of Encode(v). It only fails for values JSON cannot represent at all.
func Marshal(v any) ([]byte, error) {
	bytes, err := json.Marshal(Encode(v))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes, nil
}

// FormatTimestamp writes t with its numeric offset. Offsets with a seconds component keep it.
func FormatTimestamp(t time.Time) string {
	if _, offset := t.Zone(); offset%60 != 0 {
		return t.Format(timestampSecondsLayout)
	}
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing Z is treated as +00:00 and a timestamp without offset is
// taken to be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampParseLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return normalizeZone(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, errors.WithStack(firstErr)
}

func normalizeZone(t time.Time) time.Time {
	_, offset := t.Zone()
	if offset == 0 {
		return t.UTC()
	}
	return t.In(time.FixedZone("", offset))
}
