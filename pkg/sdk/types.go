package fuzzdex

// Hit is one scored row of a search result page.
type Hit struct {
	Key       string            `json:"key"`
	Fields    map[string]string `json:"fields,omitempty"`
	Relevance float64           `json:"relevance"`
}

// SearchResult is one page of matches. Total counts every row that
// passed the thresholds, which can exceed len(Items) when the limit
// truncated the page.
type SearchResult struct {
	Items []Hit `json:"items"`
	Total int   `json:"total"`
	Limit int   `json:"limit"`
}

// Table describes one searchable table exposed by the service.
type Table struct {
	Name    string   `json:"name"`
	Key     string   `json:"key"`
	Columns []string `json:"columns"`
}

// Health is the aggregated service health. Status is "ok", "degraded"
// or "error"; Checks reports each component separately.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// tableList mirrors the GET /v1/tables response envelope.
type tableList struct {
	Items []Table `json:"items"`
}
