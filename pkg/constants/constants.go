// Package constants provides shared constants used throughout the biocards codebase.
// This includes timeouts, file permissions, default paths, and the default era
// vocabulary that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the storage provider
	DefaultHTTPTimeout = 30 * time.Second

	// SyncTimeout is the timeout for a full image sync
	SyncTimeout = 30 * time.Minute

	// AuthorizationTimeout bounds how long the interactive authorization waits for the browser callback
	AuthorizationTimeout = 5 * time.Minute

	// LockTimeout bounds how long a writer waits for the catalog lock
	LockTimeout = 30 * time.Second

	// LockRetryDelay is the polling interval while waiting for the catalog lock
	LockRetryDelay = 50 * time.Millisecond

	// ServerShutdownTimeout is how long the gallery server drains connections
	ServerShutdownTimeout = 10 * time.Second

	// CatalogCacheTTL is how long the gallery server reuses a loaded catalog
	CatalogCacheTTL = 5 * time.Second

	// CacheCleanupInterval is how often expired cache entries are purged
	CacheCleanupInterval = 1 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like OAuth tokens (rw-------)
	SecureFilePermissions = 0600
)

// Path constants
const (
	// DefaultCatalogPath is the repository-relative catalog document
	DefaultCatalogPath = "cards.json"

	// DefaultImagesDir is the repository-relative image directory
	DefaultImagesDir = "cards"

	// ImageURLPrefix prefixes image filenames in card records
	ImageURLPrefix = "cards/"

	// DefaultCredentialsFile is the OAuth client secret file for Drive
	DefaultCredentialsFile = "credentials.json"

	// DefaultTokenFile is where the authorized Drive token is persisted
	DefaultTokenFile = "token.json"

	// LockSuffix is appended to the catalog path to form its lock file
	LockSuffix = ".lock"
)

// Format constants
const (
	// DateFormat is the layout of submitted_date
	DateFormat = "2006-01-02"

	// TimestampFormat is the layout of last_updated
	TimestampFormat = "2006-01-02T15:04:05.000000"
)

// Server constants
const (
	// DefaultServerAddr is the default listen address for the gallery API
	DefaultServerAddr = ":8080"

	// DefaultRateLimit is the default requests per minute per client IP
	DefaultRateLimit = 120

	// APIPrefix is the versioned API path prefix
	APIPrefix = "/api/v1"
)

// NATS subjects for card events
const (
	SubjectCardAdded   = "biocards.card.added"
	SubjectCardUpdated = "biocards.card.updated"
	SubjectCardRemoved = "biocards.card.removed"
)

// DefaultEras is the era vocabulary written into a freshly created catalog.
var DefaultEras = []string{
	"Pre-1900 Foundations",
	"Enzymology & Protein Chemistry",
	"Carbohydrate & Lipid Chemistry",
	"Vitamins & Nutrition",
	"Metabolic Revolutions",
	"DNA Structure & Replication",
	"Genetic Code & Protein Synthesis",
	"Structural Biology Revolution",
	"Structural Chemistry Revolution",
	"Molecular Biology of Gene Regulation",
	"Genomics & Bioinformatics Era",
	"Structural Biology & Drug Discovery",
	"Cancer Biology & Oncogenes",
	"Neuroscience & Metabolism Frontiers",
	"Contemporary Leaders & Rising Stars",
	"Synthetic Biology & Future Pioneers",
}
