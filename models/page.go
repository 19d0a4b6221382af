package models

import "time"

// PageMetadata holds fetch-time attributes for a single page. Title,
// description and language come from the backend when it supplies them, or
// from local enrichment of the returned HTML otherwise.
type PageMetadata struct {
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	Language     string           `json:"language,omitempty"`
	SiteName     string           `json:"site_name,omitempty"`
	SourceURL    string           `json:"source_url,omitempty"`
	SourceMethod ExtractionMethod `json:"source_method,omitempty"`
	StatusCode   int              `json:"status_code,omitempty"`
	FetchedAt    time.Time        `json:"fetched_at"`
}

// PageResult is the outcome of fetching one URL. A failed fetch is data, not
// an error value: Success is false and Error carries the backend's message.
// Results are immutable once the fetch client returns them, except for
// enrichment filling in missing metadata before persistence.
type PageResult struct {
	URL      string       `json:"url"`
	Markdown string       `json:"-"`
	HTML     string       `json:"-"`
	Metadata PageMetadata `json:"metadata"`
	Success  bool         `json:"success"`
	Error    string       `json:"error,omitempty"`
}

// HasContent reports whether at least one content body came back.
func (p *PageResult) HasContent() bool {
	return p.Markdown != "" || p.HTML != ""
}
