// Package description normalises raw course descriptions: markup is
// stripped best-effort, the text is lowercased and cleaned, and tokens are
// stemmed and stopword-filtered for storage. The clean sentence it emits
// is the similarity index's input.
package description
