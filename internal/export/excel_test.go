package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gitpulse/gitpulse/internal/services"
)

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()

	logPath := filepath.Join(dir, "commits.log")
	content := "2017-01-01|jane|jane@co.com|a1\n" +
		"2017-02-01|bob|bob@gmail.com|b1\n"
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0644))

	snapshot, err := services.NewAnalysisService(nil, 0).Analyze(logPath, "")
	require.NoError(t, err)

	xlsxPath := filepath.Join(dir, "report.xlsx")
	require.NoError(t, WriteSnapshot(snapshot, xlsxPath))

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Identities")
	assert.Contains(t, sheets, "Monthly")
	assert.Contains(t, sheets, "Hosts")
	assert.NotContains(t, sheets, "Events", "no events sheet without an archive")

	header, err := f.GetCellValue("Identities", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Canonical Email", header)

	rows, err := f.GetRows("Identities")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus two identities")
}
