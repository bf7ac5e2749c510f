package jobs

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source identifies one configured job-listing origin.
type Source string

const (
	SourceDGR       Source = "DGR"
	SourceAWPO      Source = "AWPO"
	SourceMyGov     Source = "MyGov"
	SourceKarnataka Source = "Karnataka SWB"
)

// Defaults substituted when a listing omits an optional field.
const (
	PlaceholderCompany  = "N/A"
	PlaceholderLocation = "Multiple Locations"
	PlaceholderLink     = "#"
	PlaceholderPosted   = "N/A"
)

// Record is one job listing. It is passed by value and never mutated after extraction.
type Record struct {
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	Link       string    `json:"link"`
	Source     Source    `json:"source"`
	Posted     string    `json:"posted"`
	ScrapedAt  time.Time `json:"scraped_at"`
	IsOfficial bool      `json:"is_official"`
}

// IdentityKey is the dedup key of a record.
type IdentityKey struct {
	Title   string
	Company string
	Source  Source
}

func keyOf(c cases.Caser, r Record) IdentityKey {
	return IdentityKey{
		Title:   c.String(r.Title),
		Company: c.String(r.Company),
		Source:  r.Source,
	}
}

// Key returns the identity key of r: lower-cased title and company plus the source.
func Key(r Record) IdentityKey {
	return keyOf(cases.Lower(language.Und), r)
}
