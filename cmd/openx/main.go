// Openx manages white-label crypto options exchange configuration.
//
// It validates exchange configuration documents through a pipeline of
// environment substitution, default filling, and semantic validation,
// and can run as a small service that keeps a seeded instrument
// catalog and metrics endpoint alive.
//
// Usage:
//
//	# Generate a starter configuration
//	openx init --output config.yaml
//
//	# Validate a configuration
//	openx validate --config config.yaml
//
//	# Revalidate on every change
//	openx validate --config config.yaml --watch
//
//	# Validate, seed the instrument catalog, and serve health/metrics
//	openx start --config config.yaml
//
//	# List past validation runs
//	openx history --limit 20
//
// Exit codes: 0 when the configuration is valid, 1 when validation
// finds errors, 2 when the file cannot be read or parsed.
package main

func main() {
	Execute()
}
