package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/logger"
)

// SimilarityIndex is the term-weighted vector space over the catalog's
// clean sentences plus the pairwise cosine-similarity matrix derived from
// it. Built once from a corpus snapshot and read-only afterwards, so
// concurrent readers need no locking. A corpus change means a wholesale
// rebuild.
//
// Self-similarity convention: the diagonal is 1 for documents with at
// least one indexed term and 0 for empty documents. The diagonal is an
// internal artifact; it is always excluded from recommendation output.
type SimilarityIndex struct {
	ids    []int64
	rowOf  map[int64]int
	vocab  []string
	matrix [][]float64
}

// BuildIndex constructs the vector space and similarity matrix for the
// given corpus. Row order follows corpus order; the vocabulary is sorted,
// so identical corpora produce bit-for-bit identical matrices. Returns
// domain.ErrEmptyCorpus for a zero-document corpus.
func BuildIndex(corpus []domain.CorpusEntry) (*SimilarityIndex, error) {
	if len(corpus) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	idx := &SimilarityIndex{
		ids:   make([]int64, len(corpus)),
		rowOf: make(map[int64]int, len(corpus)),
	}

	docs := make([][]string, len(corpus))
	df := make(map[string]int)
	for i, entry := range corpus {
		if _, dup := idx.rowOf[entry.CourseID]; dup {
			return nil, fmt.Errorf("course %d appears twice in corpus: %w", entry.CourseID, domain.ErrInvalidInput)
		}
		idx.ids[i] = entry.CourseID
		idx.rowOf[entry.CourseID] = i

		docs[i] = indexTokens(entry.CleanSentence)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, term := range docs[i] {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	// Stable vocabulary ordering keeps rebuilds reproducible.
	idx.vocab = make([]string, 0, len(df))
	for term := range df {
		idx.vocab = append(idx.vocab, term)
	}
	sort.Strings(idx.vocab)

	termIndex := make(map[string]int, len(idx.vocab))
	for i, term := range idx.vocab {
		termIndex[term] = i
	}

	// Smoothed IDF: ln((1+N)/(1+df)) + 1.
	n := float64(len(corpus))
	idf := make([]float64, len(idx.vocab))
	for i, term := range idx.vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]sparseVector, len(corpus))
	for row, tokens := range docs {
		vectors[row] = vectorise(tokens, termIndex, idf)
	}

	idx.matrix = cosineMatrix(vectors, len(corpus), len(idx.vocab))

	logger.Debug("similarity index built: %d documents, %d terms", len(corpus), len(idx.vocab))
	return idx, nil
}

// Len returns the number of indexed documents.
func (idx *SimilarityIndex) Len() int {
	return len(idx.ids)
}

// VocabularySize returns the number of distinct indexed terms.
func (idx *SimilarityIndex) VocabularySize() int {
	return len(idx.vocab)
}

// Row resolves a course ID to its matrix row.
func (idx *SimilarityIndex) Row(courseID int64) (int, bool) {
	row, ok := idx.rowOf[courseID]
	return row, ok
}

// CourseID returns the course ID occupying the given row.
func (idx *SimilarityIndex) CourseID(row int) int64 {
	return idx.ids[row]
}

// Similarity returns the cosine similarity between two rows.
func (idx *SimilarityIndex) Similarity(i, j int) float64 {
	return idx.matrix[i][j]
}

// indexTokens tokenises a clean sentence for vectorisation. The sentence
// is already lowercased and punctuation-free; the vectoriser applies its
// own stopword list on top of whatever filtering produced the sentence.
func indexTokens(cleanSentence string) []string {
	fields := strings.Fields(cleanSentence)
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := vectorStopwords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// sparseVector is one document's L2-normalised TF-IDF weights, stored as
// parallel slices sorted by term index. The fixed ordering makes every
// floating-point accumulation over the vector deterministic.
type sparseVector struct {
	terms   []int
	weights []float64
}

// vectorise produces the unit TF-IDF vector of one document. Empty
// documents yield zero vectors.
func vectorise(tokens []string, termIndex map[string]int, idf []float64) sparseVector {
	if len(tokens) == 0 {
		return sparseVector{}
	}

	counts := make(map[int]float64)
	for _, term := range tokens {
		counts[termIndex[term]]++
	}

	vec := sparseVector{
		terms:   make([]int, 0, len(counts)),
		weights: make([]float64, 0, len(counts)),
	}
	for ti := range counts {
		vec.terms = append(vec.terms, ti)
	}
	sort.Ints(vec.terms)

	total := float64(len(tokens))
	var norm float64
	for _, ti := range vec.terms {
		w := (counts[ti] / total) * idf[ti]
		vec.weights = append(vec.weights, w)
		norm += w * w
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		return sparseVector{}
	}
	for i := range vec.weights {
		vec.weights[i] /= norm
	}
	return vec
}

// cosineMatrix computes the dense pairwise similarity matrix from unit
// vectors. Vectors are unit-norm, so the dot product is the cosine.
// Accumulation walks term posting lists in term order, which keeps the
// build linear in the number of shared terms per pair and the summation
// order fixed, so identical corpora yield identical matrices.
func cosineMatrix(vectors []sparseVector, size, vocabSize int) [][]float64 {
	matrix := make([][]float64, size)
	for i := range matrix {
		matrix[i] = make([]float64, size)
	}

	type posting struct {
		row    int
		weight float64
	}
	postings := make([][]posting, vocabSize)
	for row, vec := range vectors {
		for i, ti := range vec.terms {
			postings[ti] = append(postings[ti], posting{row: row, weight: vec.weights[i]})
		}
	}

	for _, list := range postings {
		for a := 0; a < len(list); a++ {
			for b := a + 1; b < len(list); b++ {
				prod := list[a].weight * list[b].weight
				matrix[list[a].row][list[b].row] += prod
				matrix[list[b].row][list[a].row] += prod
			}
		}
	}

	// Diagonal: 1 for non-empty documents, 0 for empty ones.
	for row, vec := range vectors {
		if len(vec.terms) > 0 {
			matrix[row][row] = 1
		}
	}

	return matrix
}
