// Package driven defines the secondary ports: interfaces the core depends
// on and adapters implement (storage, the external catalog feed, the
// description normaliser).
package driven
