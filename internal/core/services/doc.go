// Package services implements the core of the recommendation engine: the
// TF-IDF similarity index, the recommendation resolver, the demand
// aggregator, and the catalog ingestion pipeline. Services depend only on
// the domain types and the driven ports.
package services
