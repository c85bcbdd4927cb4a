package models

type RssItem struct {
	Title       string `json:"title"`
	PubDate     string `json:"pubDate,omitempty"`
	Link        string `json:"link,omitempty"`
	Guid        string `json:"guid,omitempty"`
	Author      string `json:"author,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Description string `json:"description,omitempty"`
}

type RssFeed struct {
	Status string         `json:"status"`
	Feed   map[string]any `json:"feed,omitempty"`
	Items  []RssItem      `json:"items"`
}
