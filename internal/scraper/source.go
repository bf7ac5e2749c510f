package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

// Column names accepted in Source.Columns.
const (
	ColumnTitle    = "title"
	ColumnCompany  = "company"
	ColumnLocation = "location"
	ColumnPosted   = "posted"
	ColumnSkip     = "-"
)

// Source describes where a site lists its jobs and how to read them.
// Adding a site is a configuration change, not new code.
type Source struct {
	ID      jobs.Source `yaml:"id"`
	BaseURL string      `yaml:"base_url"`
	Path    string      `yaml:"path"`
	// Timeout overrides the fetcher default when shorter.
	Timeout time.Duration `yaml:"timeout"`

	// Container selects candidate entries. Fallback is tried only when
	// Container yields nothing.
	Container string `yaml:"container"`
	Fallback  string `yaml:"fallback"`
	// Skip drops leading entries matched by Container, e.g. table headers.
	Skip  int `yaml:"skip"`
	Limit int `yaml:"limit"`

	Fields Fields `yaml:"fields"`
	// Columns switches to table mode: entry cells (Cell selector, "td" by
	// default) are mapped positionally. Rows with fewer cells are skipped.
	Columns []string `yaml:"columns"`
	Cell    string   `yaml:"cell"`

	Defaults Defaults `yaml:"defaults"`
	// ResolveAgainstPage resolves relative links against BaseURL+Path
	// instead of BaseURL.
	ResolveAgainstPage bool `yaml:"resolve_against_page"`
	// Keywords, when set, keep only entries whose title contains one of them.
	Keywords   []string `yaml:"keywords"`
	Unofficial bool     `yaml:"unofficial"`

	// JSONLD reads schema.org JobPosting blocks when no selector matches.
	JSONLD bool `yaml:"jsonld"`
}

// Fields holds selectors relative to one entry. An empty Title selector reads
// the entry itself; an empty Link selector reads the entry's own href or its
// first anchor.
type Fields struct {
	Title    string `yaml:"title"`
	Company  string `yaml:"company"`
	Location string `yaml:"location"`
	Posted   string `yaml:"posted"`
	Link     string `yaml:"link"`
}

type Defaults struct {
	Company  string `yaml:"company"`
	Location string `yaml:"location"`
}

// PageURL is the listing page fetched for this source.
func (s Source) PageURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(s.Path, "/")
}

func (s Source) linkBase() (*url.URL, error) {
	if s.ResolveAgainstPage {
		return url.Parse(s.PageURL())
	}
	return url.Parse(s.BaseURL)
}

func (s Source) companyDefault() string {
	if s.Defaults.Company != "" {
		return s.Defaults.Company
	}
	return jobs.PlaceholderCompany
}

func (s Source) locationDefault() string {
	if s.Defaults.Location != "" {
		return s.Defaults.Location
	}
	return jobs.PlaceholderLocation
}

// Validate reports every problem with the source definition.
func (s Source) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if u, err := url.Parse(s.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url %q must be an absolute URL", s.BaseURL))
	}
	if s.Limit <= 0 {
		errs = append(errs, errors.New("limit must be > 0"))
	}
	if s.Skip < 0 {
		errs = append(errs, errors.New("skip must be >= 0"))
	}
	if s.Timeout < 0 {
		errs = append(errs, errors.New("timeout must be >= 0"))
	}
	if strings.TrimSpace(s.Container) == "" {
		errs = append(errs, errors.New("container selector is required"))
	}

	selectors := map[string]string{
		"container":       s.Container,
		"fallback":        s.Fallback,
		"cell":            s.Cell,
		"fields.title":    s.Fields.Title,
		"fields.company":  s.Fields.Company,
		"fields.location": s.Fields.Location,
		"fields.posted":   s.Fields.Posted,
		"fields.link":     s.Fields.Link,
	}
	for name, sel := range selectors {
		if strings.TrimSpace(sel) == "" {
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			errs = append(errs, fmt.Errorf("%s selector %q: %w", name, sel, err))
		}
	}

	if len(s.Columns) > 0 {
		hasTitle := false
		for i, c := range s.Columns {
			switch c {
			case ColumnTitle:
				hasTitle = true
			case ColumnCompany, ColumnLocation, ColumnPosted, ColumnSkip:
			default:
				errs = append(errs, fmt.Errorf("columns[%d]: unknown column %q", i, c))
			}
		}
		if !hasTitle {
			errs = append(errs, errors.New("columns must include title"))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("source %q: %w", s.ID, errors.Join(errs...))
}
