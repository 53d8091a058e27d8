package common

import (
	"os"
	"runtime/debug"

	log "github.com/spirit-labs/endbclient/logger"
)

var exit = os.Exit

// PanicHandler must be deferred directly by the goroutine it protects.
func PanicHandler() {
	if r := recover(); r != nil {
		log.Errorf("panic caught in endb: %v\n%s", r, debug.Stack())
		exit(1)
	}
}
