package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spirit-labs/endbclient/codec"
	"github.com/spirit-labs/endbclient/conf"
	"github.com/spirit-labs/endbclient/types"
)

const (
	minLineWidth = 10
	maxLineWidth = 10000
)

// Printer pretty prints decoded result values. A value which fits in the remaining line width is written on one
// line, otherwise its elements are written one per line, aligned one column after the opening bracket.
type Printer struct {
	width int
}

func NewPrinter(width int) *Printer {
	if width < minLineWidth {
		width = conf.DefaultLineWidth
	}
	if width > maxLineWidth {
		width = maxLineWidth
	}
	return &Printer{width: width}
}

func (p *Printer) Sprint(v any) string {
	var sb strings.Builder
	p.write(&sb, v, 0)
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, v any, col int) {
	compact := formatCompact(v)
	if col+len(compact) <= p.width {
		sb.WriteString(compact)
		return
	}
	switch tv := v.(type) {
	case []any:
		sb.WriteString("[")
		for i, elem := range tv {
			if i > 0 {
				sb.WriteString(",\n")
				sb.WriteString(strings.Repeat(" ", col+1))
			}
			p.write(sb, elem, col+1)
		}
		sb.WriteString("]")
	case map[string]any:
		sb.WriteString("{")
		for i, k := range sortedKeys(tv) {
			if i > 0 {
				sb.WriteString(",\n")
				sb.WriteString(strings.Repeat(" ", col+1))
			}
			key := strconv.Quote(k) + ": "
			sb.WriteString(key)
			p.write(sb, tv[k], col+1+len(key))
		}
		sb.WriteString("}")
	default:
		sb.WriteString(compact)
	}
}

func formatCompact(v any) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(tv)
	case json.Number:
		return tv.String()
	case string:
		return strconv.Quote(tv)
	case []any:
		parts := make([]string, len(tv))
		for i, elem := range tv {
			parts[i] = formatCompact(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := sortedKeys(tv)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ": " + formatCompact(tv[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return formatScalar(v)
}

func formatScalar(v any) string {
	switch types.KindOf(v) {
	case types.KindTimestamp:
		return codec.FormatTimestamp(v.(time.Time))
	case types.KindDate:
		return v.(types.Date).String()
	case types.KindTime:
		return v.(types.TimeOfDay).String()
	case types.KindBlob:
		return "b64:" + base64.StdEncoding.EncodeToString(v.([]byte))
	case types.KindOther:
		return fmt.Sprintf("%v", v)
	default:
		panic("unexpected kind")
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
