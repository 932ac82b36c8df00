package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gitpulse/gitpulse/internal/services"
	"github.com/gitpulse/gitpulse/pkg/logger"
)

// WriteSnapshot exports the analysis snapshot as an xlsx workbook, one
// sheet per table. Tabular output only; charting stays out of scope.
func WriteSnapshot(snapshot *services.Snapshot, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, snapshot); err != nil {
		return err
	}
	if err := writeIdentities(f, snapshot); err != nil {
		return err
	}
	if err := writeMonthly(f, snapshot); err != nil {
		return err
	}
	if err := writeHosts(f, snapshot); err != nil {
		return err
	}
	if snapshot.Events != nil {
		if err := writeEvents(f, snapshot); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	logger.WithField("path", path).Info("Exported snapshot workbook")
	return nil
}

func writeSummary(f *excelize.File, snapshot *services.Snapshot) error {
	summary := snapshot.Summary
	rows := [][]interface{}{
		{"Run", snapshot.ID},
		{"Generated", snapshot.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Total rows", summary.TotalRows},
		{"Resolved rows", summary.ResolvedRows},
		{"Dropped rows", summary.DroppedRows},
		{"Identities", summary.Identities},
		{"Organizational hosts", summary.OrgHosts},
		{"Drive-by authors", summary.DriveByAuthors},
		{"First month", summary.FirstCommitMonth},
		{"Last month", summary.LastCommitMonth},
	}
	return writeRows(f, "Summary", rows)
}

func writeIdentities(f *excelize.File, snapshot *services.Snapshot) error {
	rows := [][]interface{}{
		{"Canonical Email", "Display Name", "Host", "Public Provider"},
	}
	for _, author := range snapshot.Table.Identities() {
		rows = append(rows, []interface{}{
			author.CanonicalEmail, author.DisplayName, author.Host, author.IsPublicProvider,
		})
	}
	return writeSheet(f, "Identities", rows)
}

func writeMonthly(f *excelize.File, snapshot *services.Snapshot) error {
	rows := [][]interface{}{
		{"Month", "Commits", "Active Authors", "New Authors", "Org Commits", "Provider Commits"},
	}
	for _, month := range snapshot.Monthly {
		rows = append(rows, []interface{}{
			month.Month, month.Commits, month.ActiveAuthors, month.NewAuthors,
			month.OrgCommits, month.ProviderCommits,
		})
	}
	return writeSheet(f, "Monthly", rows)
}

func writeHosts(f *excelize.File, snapshot *services.Snapshot) error {
	rows := [][]interface{}{
		{"Host", "Commits", "Authors"},
	}
	for _, host := range snapshot.Hosts {
		rows = append(rows, []interface{}{host.Host, host.Commits, host.Authors})
	}
	return writeSheet(f, "Hosts", rows)
}

func writeEvents(f *excelize.File, snapshot *services.Snapshot) error {
	rows := [][]interface{}{
		{"Event Type", "Count"},
	}
	for _, eventType := range snapshot.Events.ByType {
		rows = append(rows, []interface{}{eventType.Type, eventType.Count})
	}
	return writeSheet(f, "Events", rows)
}

func writeSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, name string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}
	return nil
}
