package logging

// These constants are used to identify the various services that may do some logging
const (
	// CONFIG_SERVICE is the constant used to identify the config package
	CONFIG_SERVICE = "config"
	// COMPILATION_SERVICE is the constant used to identify the compilation package
	COMPILATION_SERVICE = "compilation"
	// NETWORK_SERVICE is the constant used to identify the network package
	NETWORK_SERVICE = "network"
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
)
