package types

// CookiesMetadata describes the currently installed cookies.txt file.
type CookiesMetadata struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Modified    string `json:"modified"`
	Format      string `json:"format"`
	LineCount   int    `json:"line_count"`
	DomainCount int    `json:"domain_count"`
}
