package models

// MonthlyStats holds contributor activity aggregates for one calendar month.
type MonthlyStats struct {
	Month           string `json:"month"` // "2006-01"
	Commits         int    `json:"commits"`
	ActiveAuthors   int    `json:"active_authors"`
	NewAuthors      int    `json:"new_authors"`
	OrgCommits      int    `json:"org_commits"`
	ProviderCommits int    `json:"provider_commits"`
}

// HostStats holds per-organizational-host aggregates. Public provider
// domains never appear here.
type HostStats struct {
	Host    string `json:"host"`
	Commits int    `json:"commits"`
	Authors int    `json:"authors"`
}

// AnalysisSummary is the run-level roll-up reported to the caller.
type AnalysisSummary struct {
	TotalRows        int    `json:"total_rows"`
	ResolvedRows     int    `json:"resolved_rows"`
	DroppedRows      int    `json:"dropped_rows"`
	Identities       int    `json:"identities"`
	OrgHosts         int    `json:"org_hosts"`
	DriveByAuthors   int    `json:"drive_by_authors"`
	FirstCommitMonth string `json:"first_commit_month"`
	LastCommitMonth  string `json:"last_commit_month"`
}
