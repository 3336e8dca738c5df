// Package main provides build targets for the tokens project using Mage.
//
// Usage:
//
//	mage build          Compile the tokens binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests in short mode
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write coverage.out and print per-function coverage
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install tokens to GOPATH/bin
//	mage stats          Print Go LOC and built-in theme token counts
package main

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "tokens"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tokens"
	coverFile  = "coverage.out"
)
