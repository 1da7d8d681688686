package main

// Exit codes used by all jfp commands.
const (
	ExitSuccess      = 0 // Success
	ExitError        = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError  = 2 // Configuration error (missing config, invalid paths)
	ExitDataError    = 3 // Data error (malformed input, validation failure)
	ExitServiceError = 4 // Fingerprint service unreachable or rejected credentials
)
