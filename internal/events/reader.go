package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/gitpulse/gitpulse/pkg/logger"
)

// ArchiveResult holds per-actor and per-type event counts from one
// GitHub event archive file. Lines follow the Events API schema, one
// JSON object per line.
type ArchiveResult struct {
	ByType  map[string]int
	ByActor map[string]int
	Total   int
	Dropped int
}

// ReadFile reads an NDJSON event archive from disk.
func ReadFile(path string) (*ArchiveResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event archive: %w", err)
	}
	defer f.Close()

	result, err := Read(f)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"path":    path,
		"events":  result.Total,
		"dropped": result.Dropped,
	}).Info("Read event archive")

	return result, nil
}

// Read decodes event lines from r. Lines that fail to decode or carry no
// event type are dropped and counted, mirroring the commit log failure
// semantics: one bad line never fails the pass.
func Read(r io.Reader) (*ArchiveResult, error) {
	result := &ArchiveResult{
		ByType:  make(map[string]int),
		ByActor: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	// Archive lines carry full event payloads and routinely exceed the
	// default scanner limit.
	scanner.Buffer(make([]byte, 0, 256*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result.Total++

		var event github.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil || event.GetType() == "" {
			result.Dropped++
			logger.Debug("Dropped malformed event line")
			continue
		}

		result.ByType[event.GetType()]++
		if login := event.GetActor().GetLogin(); login != "" {
			result.ByActor[strings.ToLower(login)]++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event archive: %w", err)
	}

	return result, nil
}
