package models

// Usage is a percentage reading together with the absolute figures it was
// computed from.
type Usage struct {
	Percent    float64 `json:"percent"`
	UsedBytes  uint64  `json:"used_bytes"`
	TotalBytes uint64  `json:"total_bytes"`
}

// ScanResult is the outcome of one pass over the authentication log.
type ScanResult struct {
	Count       int      `json:"count"`
	RecentLines []string `json:"recent_lines"`
}
