// Package file loads the typed application configuration from a TOML
// file, with environment variables (optionally via a .env file) taking
// precedence for credentials.
package file
