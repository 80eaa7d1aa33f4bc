// Package driven defines the outbound ports the core services depend on:
// the article connector, the normaliser, the local stores and the remote
// document index. Adapters implement these interfaces.
package driven
