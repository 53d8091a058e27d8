package client

import (
	"strings"

	"github.com/spirit-labs/endbclient/errors"
)

// AcceptFormat is the MIME type requested from the server with the Accept header.
type AcceptFormat string

const (
	JSON      AcceptFormat = "application/json"
	JSONLD    AcceptFormat = "application/ld+json"
	CSV       AcceptFormat = "text/csv"
	ArrowFile AcceptFormat = "application/vnd.apache.arrow.file"
)

var acceptFormats = []AcceptFormat{JSON, JSONLD, CSV, ArrowFile}

var shortNames = map[string]AcceptFormat{
	"json":       JSON,
	"json-ld":    JSONLD,
	"jsonld":     JSONLD,
	"csv":        CSV,
	"arrow":      ArrowFile,
	"arrow-file": ArrowFile,
}

func AcceptFormats() []AcceptFormat {
	formats := make([]AcceptFormat, len(acceptFormats))
	copy(formats, acceptFormats)
	return formats
}

// ParseAcceptFormat accepts one of the supported MIME types or its short name, case insensitively.
func ParseAcceptFormat(s string) (AcceptFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, format := range acceptFormats {
		if s == string(format) {
			return format, nil
		}
	}
	if format, ok := shortNames[s]; ok {
		return format, nil
	}
	return "", errors.NewInvalidConfigurationError("unsupported accept format: '" + s + "'")
}

// IsStructured returns true for formats whose body is JSON text and is decoded into native values.
func (a AcceptFormat) IsStructured() bool {
	return a == JSON || a == JSONLD
}

func (a AcceptFormat) String() string {
	return string(a)
}
