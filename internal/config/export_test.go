package config

// Exported for tests.
var (
	AllNonEmpty = allNonEmpty
	ValidPort   = validPort
	GetEnv      = getEnv
)
