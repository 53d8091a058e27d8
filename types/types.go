package types

import (
	"fmt"
	"time"
)

// Kind identifies the extended scalar kinds which travel over the wire as tagged objects.
type Kind int

const (
	KindOther Kind = iota
	KindTimestamp
	KindDate
	KindTime
	KindBlob
)

const (
	TagDateTime     = "xsd:dateTime"
	TagDate         = "xsd:date"
	TagTime         = "xsd:time"
	TagBase64Binary = "xsd:base64Binary"
)

var extendedKinds = []Kind{KindTimestamp, KindDate, KindTime, KindBlob}

// Kinds returns the extended kinds, that is every kind except KindOther.
func Kinds() []Kind {
	kinds := make([]Kind, len(extendedKinds))
	copy(kinds, extendedKinds)
	return kinds
}

func (k Kind) Tag() string {
	switch k {
	case KindTimestamp:
		return TagDateTime
	case KindDate:
		return TagDate
	case KindTime:
		return TagTime
	case KindBlob:
		return TagBase64Binary
	case KindOther:
		return ""
	default:
		panic(fmt.Sprintf("unexpected kind %d", k))
	}
}

func (k Kind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindBlob:
		return "blob"
	case KindOther:
		return "other"
	default:
		panic(fmt.Sprintf("unexpected kind %d", k))
	}
}

// KindForTag returns the kind carried by a wire tag. ok is false for unknown tags.
func KindForTag(tag string) (kind Kind, ok bool) {
	switch tag {
	case TagDateTime:
		return KindTimestamp, true
	case TagDate:
		return KindDate, true
	case TagTime:
		return KindTime, true
	case TagBase64Binary:
		return KindBlob, true
	default:
		return KindOther, false
	}
}

func KindOf(v any) Kind {
	switch v.(type) {
	case time.Time:
		return KindTimestamp
	case Date:
		return KindDate
	case TimeOfDay:
		return KindTime
	case []byte:
		return KindBlob
	default:
		return KindOther
	}
}
