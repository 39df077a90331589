package models

const (
	// Sentinel fills optional string fields that were missing or blank.
	Sentinel = "N/A"

	SourceHackerNews = "HackerNews"

	// PublishedAtLayout is YYYY-MM-DD HH:MM:SS.
	PublishedAtLayout = "2006-01-02 15:04:05"
)

// CanonicalDocument is the normalized record emitted to sinks.
type CanonicalDocument struct {
	ArticleID   string  `json:"article_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"published_at"`
	SourceName  string  `json:"source_name"`
	Content     string  `json:"content"`
	Author      *string `json:"author,omitempty"`
	Language    string  `json:"language,omitempty"`
}
