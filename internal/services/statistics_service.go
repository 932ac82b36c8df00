package services

import (
	"sort"

	"github.com/gitpulse/gitpulse/internal/identity"
	"github.com/gitpulse/gitpulse/internal/models"
)

// StatisticsService computes contributor activity aggregates from resolved
// commit records. Every aggregate is built once per run and returned as an
// immutable value; the service itself keeps no state between calls.
type StatisticsService struct{}

func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// MonthlyActivity calculates per-month commit and contributor aggregates,
// sorted by month. A "new" author is an identity whose first commit falls
// in that month.
func (s *StatisticsService) MonthlyActivity(records []models.CommitRecord, table *identity.LookupTable) []*models.MonthlyStats {
	type monthBucket struct {
		stats   *models.MonthlyStats
		authors map[string]bool
	}

	buckets := make(map[string]*monthBucket)
	firstMonth := make(map[string]string)

	for _, record := range records {
		author, ok := table.Lookup(record.AuthorEmail)
		if !ok {
			continue
		}

		month := record.Month()
		bucket, ok := buckets[month]
		if !ok {
			bucket = &monthBucket{
				stats:   &models.MonthlyStats{Month: month},
				authors: make(map[string]bool),
			}
			buckets[month] = bucket
		}

		bucket.stats.Commits++
		bucket.authors[author.CanonicalEmail] = true
		if author.IsPublicProvider {
			bucket.stats.ProviderCommits++
		} else {
			bucket.stats.OrgCommits++
		}

		if first, seen := firstMonth[author.CanonicalEmail]; !seen || month < first {
			firstMonth[author.CanonicalEmail] = month
		}
	}

	months := make([]*models.MonthlyStats, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.stats.ActiveAuthors = len(bucket.authors)
		months = append(months, bucket.stats)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})

	for _, month := range months {
		for email, first := range firstMonth {
			if first == month.Month && buckets[month.Month].authors[email] {
				month.NewAuthors++
			}
		}
	}

	return months
}

// HostBreakdown calculates commit and author counts per organizational
// host, sorted by commits descending then host. Public provider domains
// are excluded: they are never an organizational affiliation signal.
func (s *StatisticsService) HostBreakdown(records []models.CommitRecord, table *identity.LookupTable) []*models.HostStats {
	type hostBucket struct {
		stats   *models.HostStats
		authors map[string]bool
	}

	buckets := make(map[string]*hostBucket)
	for _, record := range records {
		author, ok := table.Lookup(record.AuthorEmail)
		if !ok || author.IsPublicProvider || author.Host == "" {
			continue
		}

		bucket, ok := buckets[author.Host]
		if !ok {
			bucket = &hostBucket{
				stats:   &models.HostStats{Host: author.Host},
				authors: make(map[string]bool),
			}
			buckets[author.Host] = bucket
		}
		bucket.stats.Commits++
		bucket.authors[author.CanonicalEmail] = true
	}

	hosts := make([]*models.HostStats, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.stats.Authors = len(bucket.authors)
		hosts = append(hosts, bucket.stats)
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Commits != hosts[j].Commits {
			return hosts[i].Commits > hosts[j].Commits
		}
		return hosts[i].Host < hosts[j].Host
	})

	return hosts
}

// DriveByAuthors returns the identities active in exactly one calendar
// month, sorted by canonical email.
func (s *StatisticsService) DriveByAuthors(records []models.CommitRecord, table *identity.LookupTable) []*models.AuthorIdentity {
	months := make(map[string]map[string]bool)
	for _, record := range records {
		author, ok := table.Lookup(record.AuthorEmail)
		if !ok {
			continue
		}
		if months[author.CanonicalEmail] == nil {
			months[author.CanonicalEmail] = make(map[string]bool)
		}
		months[author.CanonicalEmail][record.Month()] = true
	}

	var driveBy []*models.AuthorIdentity
	for _, author := range table.Identities() {
		if len(months[author.CanonicalEmail]) == 1 {
			driveBy = append(driveBy, author)
		}
	}
	return driveBy
}

// Summary builds the run-level roll-up.
func (s *StatisticsService) Summary(totalRows, droppedRows int, records []models.CommitRecord, table *identity.LookupTable, monthly []*models.MonthlyStats, hosts []*models.HostStats, driveBy []*models.AuthorIdentity) *models.AnalysisSummary {
	summary := &models.AnalysisSummary{
		TotalRows:      totalRows,
		ResolvedRows:   len(records),
		DroppedRows:    droppedRows,
		Identities:     table.Size(),
		OrgHosts:       len(hosts),
		DriveByAuthors: len(driveBy),
	}
	if len(monthly) > 0 {
		summary.FirstCommitMonth = monthly[0].Month
		summary.LastCommitMonth = monthly[len(monthly)-1].Month
	}
	return summary
}
