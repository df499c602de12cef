package driven

import "github.com/registrar-labs/courserec/internal/core/domain"

// Normaliser cleans a raw, possibly HTML-bearing course description into
// its normalised form. Normalisation is best-effort and total: malformed
// markup yields stripped text, never an error.
type Normaliser interface {
	Normalise(raw string) domain.NormalizedDescription
}
