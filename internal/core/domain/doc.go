// Package domain contains the core entities of the course recommendation
// engine: catalog courses, normalised descriptions, enrollment demand
// records, and the recommendation/demand report structures computed from
// them. Types here have no dependencies on storage or transport.
package domain
