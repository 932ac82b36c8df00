package gitlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gitpulse/gitpulse/internal/models"
	"github.com/gitpulse/gitpulse/pkg/logger"
)

// Expected column order in the extracted log: date|name|email|sha.
const fieldCount = 4

// dateLayouts are the accepted commit date formats. The extraction
// collaborator emits short ISO dates; full timestamps are tolerated.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseResult holds the commit records recovered from one log file plus
// the row-level accounting. Dropped + len(Records) always equals Total.
type ParseResult struct {
	Records []models.CommitRecord
	Total   int
	Dropped int
}

// ParseFile reads a pipe-delimited commit log from disk.
func ParseFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open commit log: %w", err)
	}
	defer f.Close()

	result, err := Parse(f)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"path":    path,
		"rows":    result.Total,
		"dropped": result.Dropped,
	}).Info("Parsed commit log")

	return result, nil
}

// Parse reads pipe-delimited commit rows from r. Malformed rows (wrong
// field count, empty name or email, unparseable date) are dropped and
// counted; a single bad row never fails the whole pass. Blank lines are
// skipped and not counted as rows.
func Parse(r io.Reader) (*ParseResult, error) {
	result := &ParseResult{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result.Total++

		record, ok := parseRow(line)
		if !ok {
			result.Dropped++
			logger.WithField("row", line).Debug("Dropped malformed commit row")
			continue
		}

		result.Records = append(result.Records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}

	return result, nil
}

// parseRow parses one "date|name|email|sha" row. Name and email are
// lower-cased so that case variants of one author group together.
func parseRow(line string) (models.CommitRecord, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != fieldCount {
		return models.CommitRecord{}, false
	}

	date, ok := parseDate(strings.TrimSpace(fields[0]))
	if !ok {
		return models.CommitRecord{}, false
	}

	name := strings.ToLower(strings.TrimSpace(fields[1]))
	email := strings.ToLower(strings.TrimSpace(fields[2]))
	sha := strings.TrimSpace(fields[3])

	if name == "" || email == "" || sha == "" {
		return models.CommitRecord{}, false
	}

	return models.CommitRecord{
		Date:        date,
		AuthorName:  name,
		AuthorEmail: email,
		CommitSHA:   sha,
	}, true
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
