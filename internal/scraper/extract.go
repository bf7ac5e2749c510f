package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
	"github.com/ShreyaSuvarna1/Veerpath/internal/urlutil"
)

type ExtractError struct {
	Source jobs.Source
	Err    error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

func (e *ExtractError) Kind() string {
	return "extract"
}

type entry struct {
	title, company, location, posted, href string
}

// Extract applies the source's selection rules to markup. Only the first
// Limit candidates are considered; candidates without a title are dropped.
// When no selector matches and the source allows it, JobPosting entries from
// ld+json blocks are used instead.
// Any parse failure or panic yields no records and an *ExtractError.
func Extract(src Source, markup []byte, now time.Time) (records []jobs.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = &ExtractError{Source: src.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	base, err := src.linkBase()
	if err != nil {
		return nil, &ExtractError{Source: src.ID, Err: fmt.Errorf("base url: %w", err)}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, &ExtractError{Source: src.ID, Err: fmt.Errorf("parse failed: %w", err)}
	}

	candidates := doc.Find(src.Container)
	if src.Skip > 0 {
		if src.Skip >= candidates.Length() {
			candidates = candidates.Slice(0, 0)
		} else {
			candidates = candidates.Slice(src.Skip, candidates.Length())
		}
	}
	if candidates.Length() == 0 && src.Fallback != "" {
		candidates = doc.Find(src.Fallback)
	}
	if candidates.Length() == 0 && src.JSONLD {
		return collect(src, base, jsonLDEntries(doc), now), nil
	}
	if candidates.Length() > src.Limit {
		candidates = candidates.Slice(0, src.Limit)
	}

	entries := make([]entry, 0, candidates.Length())
	candidates.Each(func(_ int, s *goquery.Selection) {
		var (
			e  entry
			ok bool
		)
		if len(src.Columns) > 0 {
			e, ok = readRow(src, s)
		} else {
			e, ok = readEntry(src, s)
		}
		if ok {
			entries = append(entries, e)
		}
	})
	return collect(src, base, entries, now), nil
}

func collect(src Source, base *url.URL, entries []entry, now time.Time) []jobs.Record {
	if len(entries) > src.Limit {
		entries = entries[:src.Limit]
	}
	records := make([]jobs.Record, 0, len(entries))
	for _, e := range entries {
		if e.title == "" || !jobs.MatchesKeywords(e.title, src.Keywords) {
			continue
		}
		records = append(records, buildRecord(src, base, e, now))
	}
	return records
}

func readEntry(src Source, s *goquery.Selection) (entry, bool) {
	var e entry
	titleSel := s
	if src.Fields.Title != "" {
		titleSel = s.Find(src.Fields.Title).First()
	}
	e.title = textOf(titleSel)
	e.company = fieldText(s, src.Fields.Company)
	e.location = fieldText(s, src.Fields.Location)
	e.posted = fieldText(s, src.Fields.Posted)

	if src.Fields.Link != "" {
		e.href, _ = s.Find(src.Fields.Link).First().Attr("href")
	} else {
		e.href = anchorHref(s)
	}
	return e, true
}

func readRow(src Source, s *goquery.Selection) (entry, bool) {
	cellSel := src.Cell
	if cellSel == "" {
		cellSel = "td"
	}
	cells := s.Find(cellSel)
	if cells.Length() < len(src.Columns) {
		return entry{}, false
	}

	var e entry
	for i, col := range src.Columns {
		cell := cells.Eq(i)
		switch col {
		case ColumnTitle:
			e.title = textOf(cell)
			e.href = anchorHref(cell)
		case ColumnCompany:
			e.company = textOf(cell)
		case ColumnLocation:
			e.location = textOf(cell)
		case ColumnPosted:
			e.posted = textOf(cell)
		}
	}
	if src.Fields.Link != "" {
		e.href, _ = s.Find(src.Fields.Link).First().Attr("href")
	}
	return e, true
}

func fieldText(s *goquery.Selection, sel string) string {
	if sel == "" {
		return ""
	}
	return textOf(s.Find(sel).First())
}

// anchorHref returns the href of s itself when it is an anchor, otherwise the
// href of its first descendant anchor.
func anchorHref(s *goquery.Selection) string {
	if goquery.NodeName(s) == "a" {
		href, _ := s.Attr("href")
		return href
	}
	href, _ := s.Find("a[href]").First().Attr("href")
	return href
}

func buildRecord(src Source, base *url.URL, e entry, now time.Time) jobs.Record {
	r := jobs.Record{
		Title:      e.title,
		Company:    e.company,
		Location:   e.location,
		Link:       urlutil.Resolve(base, e.href),
		Source:     src.ID,
		Posted:     e.posted,
		ScrapedAt:  now,
		IsOfficial: !src.Unofficial,
	}
	if r.Company == "" {
		r.Company = src.companyDefault()
	}
	if r.Location == "" {
		r.Location = src.locationDefault()
	}
	if r.Posted == "" {
		r.Posted = jobs.PlaceholderPosted
	}
	if r.Link == "" {
		r.Link = jobs.PlaceholderLink
	}
	return r
}
