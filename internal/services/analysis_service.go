package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gitpulse/gitpulse/internal/events"
	"github.com/gitpulse/gitpulse/internal/gitlog"
	"github.com/gitpulse/gitpulse/internal/identity"
	"github.com/gitpulse/gitpulse/internal/models"
	"github.com/gitpulse/gitpulse/pkg/logger"
)

// Snapshot is the complete, immutable result of one analysis pass. It is
// built once, handed to the export and serving layers, and discarded when
// the process exits.
type Snapshot struct {
	ID          string                   `json:"id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Records     []models.CommitRecord    `json:"-"`
	Table       *identity.LookupTable    `json:"-"`
	Monthly     []*models.MonthlyStats   `json:"monthly"`
	Hosts       []*models.HostStats      `json:"hosts"`
	DriveBy     []*models.AuthorIdentity `json:"drive_by"`
	Summary     *models.AnalysisSummary  `json:"summary"`
	Events      *models.EventStats       `json:"events,omitempty"`
}

// AnalysisService runs the full pipeline: parse the commit log, resolve
// author identities, compute activity statistics, and optionally fold in
// a GitHub event archive.
type AnalysisService struct {
	resolver  *identity.Resolver
	stats     *StatisticsService
	topActors int
}

// NewAnalysisService creates an analysis service. A nil ruleset falls
// back to the defaults.
func NewAnalysisService(rules *identity.Ruleset, topActors int) *AnalysisService {
	if topActors <= 0 {
		topActors = 20
	}
	return &AnalysisService{
		resolver:  identity.NewResolver(rules),
		stats:     NewStatisticsService(),
		topActors: topActors,
	}
}

// Analyze runs one batch pass. eventsPath may be empty, in which case the
// snapshot carries no event statistics.
func (s *AnalysisService) Analyze(logPath, eventsPath string) (*Snapshot, error) {
	parsed, err := gitlog.ParseFile(logPath)
	if err != nil {
		return nil, err
	}

	table, err := s.resolver.Resolve(parsed.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author identities: %w", err)
	}

	monthly := s.stats.MonthlyActivity(parsed.Records, table)
	hosts := s.stats.HostBreakdown(parsed.Records, table)
	driveBy := s.stats.DriveByAuthors(parsed.Records, table)

	snapshot := &Snapshot{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now(),
		Records:     parsed.Records,
		Table:       table,
		Monthly:     monthly,
		Hosts:       hosts,
		DriveBy:     driveBy,
		Summary:     s.stats.Summary(parsed.Total, parsed.Dropped, parsed.Records, table, monthly, hosts, driveBy),
	}

	if eventsPath != "" {
		archive, err := events.ReadFile(eventsPath)
		if err != nil {
			return nil, err
		}
		snapshot.Events = s.eventStats(archive, table)
	}

	logger.WithFields(map[string]interface{}{
		"run":        snapshot.ID,
		"rows":       parsed.Total,
		"dropped":    parsed.Dropped,
		"identities": table.Size(),
	}).Info("Analysis pass complete")

	return snapshot, nil
}

// eventStats joins archive actors against resolved identities. An actor
// is "known" when its login matches an identity's display name; logins
// are not emails, so the join is informational only and never feeds back
// into identity resolution.
func (s *AnalysisService) eventStats(archive *events.ArchiveResult, table *identity.LookupTable) *models.EventStats {
	known := make(map[string]bool)
	for _, author := range table.Identities() {
		known[author.DisplayName] = true
	}

	stats := &models.EventStats{
		TotalEvents:  archive.Total,
		DroppedLines: archive.Dropped,
	}

	for eventType, count := range archive.ByType {
		stats.ByType = append(stats.ByType, &models.EventTypeCount{Type: eventType, Count: count})
	}
	sort.Slice(stats.ByType, func(i, j int) bool {
		if stats.ByType[i].Count != stats.ByType[j].Count {
			return stats.ByType[i].Count > stats.ByType[j].Count
		}
		return stats.ByType[i].Type < stats.ByType[j].Type
	})

	actors := make([]*models.ActorEventCount, 0, len(archive.ByActor))
	for login, count := range archive.ByActor {
		actor := &models.ActorEventCount{Login: login, Events: count, Known: known[login]}
		if actor.Known {
			stats.MatchedActors++
		}
		actors = append(actors, actor)
	}
	sort.Slice(actors, func(i, j int) bool {
		if actors[i].Events != actors[j].Events {
			return actors[i].Events > actors[j].Events
		}
		return actors[i].Login < actors[j].Login
	})
	if len(actors) > s.topActors {
		actors = actors[:s.topActors]
	}
	stats.TopActors = actors

	return stats
}
