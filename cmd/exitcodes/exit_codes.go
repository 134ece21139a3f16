package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeInvalidConfig indicates the project configuration was loaded but failed validation.
	ExitCodeInvalidConfig = 6

	// ExitCodeProbeFailed indicates one or more network endpoints could not be verified.
	ExitCodeProbeFailed = 7
)
