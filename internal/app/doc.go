// Package app contains the core application logic. It wires the registry,
// the package set and the universe together and drives recipe runs,
// decoupled from any specific entrypoint like a CLI.
package app
