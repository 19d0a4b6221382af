package firecrawl

// scrapeOptions are the page-rendering parameters sent with every fetch.
// Defaults mirror the documented site setup: main content only, navigation
// chrome stripped, and a short wait for dynamically loaded document lists.
type scrapeOptions struct {
	Formats         []string `json:"formats,omitempty"`
	OnlyMainContent bool     `json:"onlyMainContent,omitempty"`
	IncludeTags     []string `json:"includeTags,omitempty"`
	ExcludeTags     []string `json:"excludeTags,omitempty"`
	WaitFor         int      `json:"waitFor,omitempty"`
}

type scrapeRequest struct {
	URL string `json:"url"`
	scrapeOptions
}

type crawlRequest struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

// pageMetadata is the backend-supplied metadata block for one page.
type pageMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	SourceURL   string `json:"sourceURL,omitempty"`
	StatusCode  int    `json:"statusCode,omitempty"`
}

// pageData is one fetched page as returned by the backend.
type pageData struct {
	Markdown string       `json:"markdown,omitempty"`
	HTML     string       `json:"html,omitempty"`
	Metadata pageMetadata `json:"metadata"`
}

type scrapeResponse struct {
	Success bool     `json:"success"`
	Data    pageData `json:"data"`
	Error   string   `json:"error,omitempty"`
}

type crawlStartResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error,omitempty"`
}

type crawlStatusResponse struct {
	Status    string     `json:"status"`
	Total     int        `json:"total,omitempty"`
	Completed int        `json:"completed,omitempty"`
	Data      []pageData `json:"data"`
	Error     string     `json:"error,omitempty"`
}
