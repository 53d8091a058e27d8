package codec

import (
	"encoding/base64"
	"encoding/json"

	"github.com/spirit-labs/endbclient/errors"
	"github.com/spirit-labs/endbclient/types"
	"github.com/tidwall/gjson"
)

const (
	valueKey = "@value"
	typeKey  = "@type"
	graphKey = "@graph"
)

// DecodeObject is applied to every JSON object once its members have been decoded. A tagged extended scalar becomes
// its native value. Anything else, including tags we don't know and tagged values whose text doesn't parse, yields
// the object's @graph member if it has one, or else the object itself.
func DecodeObject(obj map[string]any) any {
	if v, ok := decodeTagged(obj); ok {
		return v
	}
	if graph, ok := obj[graphKey]; ok {
		return graph
	}
	return obj
}

func decodeTagged(obj map[string]any) (any, bool) {
	tag, ok := obj[typeKey].(string)
	if !ok {
		return nil, false
	}
	kind, ok := types.KindForTag(tag)
	if !ok {
		return nil, false
	}
	text, ok := obj[valueKey].(string)
	if !ok {
		return nil, false
	}
	var v any
	var err error
	switch kind {
	case types.KindTimestamp:
		v, err = ParseTimestamp(text)
	case types.KindDate:
		v, err = types.ParseDate(text)
	case types.KindTime:
		v, err = types.ParseTimeOfDay(text)
	case types.KindBlob:
		v, err = base64.StdEncoding.DecodeString(text)
	case types.KindOther:
		return nil, false
	default:
		panic("unexpected kind")
	}
	if err != nil {
		return nil, false
	}
	return v, true
}

// DecodeTree walks a generic tree of []any and map[string]any, as produced by encoding/json, and applies
// DecodeObject to every object, children first.
func DecodeTree(v any) any {
	switch tv := v.(type) {
	case []any:
		for i, elem := range tv {
			tv[i] = DecodeTree(elem)
		}
		return tv
	case map[string]any:
		for k, elem := range tv {
			tv[k] = DecodeTree(elem)
		}
		return DecodeObject(tv)
	default:
		return v
	}
}

// Unmarshal parses JSON text into a decoded tree. Numbers are returned as json.Number so that their text is
// preserved exactly.
func Unmarshal(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.NewEndbErrorf(errors.DecodeError, "invalid JSON document: %s", preview(data))
	}
	return build(gjson.ParseBytes(data)), nil
}

func build(res gjson.Result) any {
	switch res.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(res.Raw)
	case gjson.String:
		return res.Str
	case gjson.JSON:
		if res.IsArray() {
			arr := make([]any, 0)
			res.ForEach(func(_, value gjson.Result) bool {
				arr = append(arr, build(value))
				return true
			})
			return arr
		}
		obj := make(map[string]any)
		res.ForEach(func(key, value gjson.Result) bool {
			obj[key.Str] = build(value)
			return true
		})
		return DecodeObject(obj)
	default:
		panic("unexpected json type")
	}
}

func preview(data []byte) string {
	const previewLen = 64
	if len(data) > previewLen {
		return string(data[:previewLen]) + "..."
	}
	return string(data)
}
