package domain

import "strings"

// Course is a canonical catalog entry: one record per unique
// (subject code, course number) pair. Cross-listed raw listings collapse
// into a single Course, with the extra subject codes kept as aliases.
// Courses are created once per ingestion run and are immutable within a
// catalog snapshot.
type Course struct {
	// ID is the process-assigned integer identity, stable for the life of
	// a catalog snapshot.
	ID int64

	// SubjectCode is the primary subject prefix, e.g. "CPSC".
	SubjectCode string

	// CourseNumber is the catalog number within the subject, e.g. "223".
	CourseNumber string

	// DeptCode and DeptName identify the owning department.
	DeptCode string
	DeptName string

	// Title is the human-readable course title.
	Title string

	// RawDescription is the description as ingested, possibly HTML-bearing,
	// possibly empty.
	RawDescription string

	// School and Term scope the catalog snapshot.
	School string
	Term   string

	// CrossListings holds the subject codes of cross-listed sections that
	// collapsed into this canonical record, e.g. ["PLSC", "ECON"].
	CrossListings []string
}

// FullCode is the subject code concatenated with the course number,
// e.g. "CPSC 223".
func (c Course) FullCode() string {
	return c.SubjectCode + " " + c.CourseNumber
}

// CodeLine renders the primary code plus any cross-listed subject codes,
// pipe-separated, matching the catalog's display convention.
func (c Course) CodeLine() string {
	if len(c.CrossListings) == 0 {
		return c.SubjectCode
	}
	return c.SubjectCode + " | " + strings.Join(c.CrossListings, " | ")
}

// RawListing is a single row as returned by the catalog feed, before
// canonicalization. Several raw listings may describe the same logical
// course (cross-listed sections sharing a raw identifier).
type RawListing struct {
	// RawID is the catalog feed's own identifier. Cross-listed sections
	// share it.
	RawID string

	SubjectCode  string
	CourseNumber string
	DeptCode     string
	DeptName     string
	Title        string
	Description  string
	School       string
	Term         string
}

// NormalizedDescription is the cleaned, tokenised form of a course
// description. One-to-one with Course by CourseID; both fields are empty
// when the course has no description.
type NormalizedDescription struct {
	CourseID int64

	// CleanSentence is the lowercased, markup- and punctuation-stripped
	// plain text fed to the similarity index.
	CleanSentence string

	// Tokens is the ordered sequence of stemmed, stopword-filtered tokens.
	// Order is deterministic for a given input.
	Tokens []string
}

// TokenSentence joins the token sequence with pipes for storage.
func (n NormalizedDescription) TokenSentence() string {
	return strings.Join(n.Tokens, "|")
}

// SplitTokenSentence reverses TokenSentence.
func SplitTokenSentence(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

// CorpusEntry is the similarity index's input: one row per course, in
// stable course-ID order.
type CorpusEntry struct {
	CourseID      int64
	CleanSentence string
}

// DemandRecord is one enrollment-demand observation. CourseID is nil when
// the raw row could not be resolved against the canonical catalog
// (unresolved cross-listings).
type DemandRecord struct {
	CourseID    *int64
	CourseCode  string
	CourseTitle string
	Demand      int64
}
