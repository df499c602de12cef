// Package driving defines the primary ports: the service interfaces the
// CLI and HTTP adapters drive.
package driving
