package conf

import (
	"net/url"

	"github.com/spirit-labs/endbclient/errors"
)

const (
	DefaultEndpoint    = "http://localhost:3803/sql"
	DefaultAccept      = "application/ld+json"
	DefaultHistoryFile = ".endb_history"
	DefaultPrompt      = "-> "
	DefaultLineWidth   = 80
)

// ValidateEndpoint checks that endpoint is an absolute http or https URL.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.NewInvalidConfigurationError("url must be specified")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.NewInvalidConfigurationError(err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewInvalidConfigurationError("url must use the http or https scheme")
	}
	if u.Host == "" {
		return errors.NewInvalidConfigurationError("url must include a host")
	}
	return nil
}
