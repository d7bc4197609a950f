package http

import (
	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/storage"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Storage       storage.Service
	ImportService *importer.Service

	// MigrateTarget receives the active user's records on POST
	// /api/migrate. Optional; the endpoint reports an error when unset.
	MigrateTarget storage.Service

	// Application info
	Version string
}
