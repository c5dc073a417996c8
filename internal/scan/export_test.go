package scan

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	ResolveSourceNames = resolveSourceNames
	ResolveOutputRoot  = resolveOutputRoot
)

const (
	WarnTooLarge = warnTooLarge
	WarnBinary   = warnBinary
)
