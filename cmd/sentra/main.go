// Sentra is a content security scanning service for LLM traffic.
//
// It scans prompts before they reach a model and model outputs before they
// reach users, running configurable detectors (secrets, banned content,
// regex patterns, token budgets) and combining their findings into a single
// verdict with redaction.
//
// Usage:
//
//	# Start the API server with default configuration
//	sentra run
//
//	# Start with a custom configuration file
//	sentra run --config /path/to/config.yaml
//
//	# Scan a single prompt from the command line
//	sentra scan "text to check"
//
//	# Show version information
//	sentra version
package main

func main() {
	Execute()
}
