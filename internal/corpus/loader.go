package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haasonsaas/verbatim/pkg/models"
)

const (
	recordFileName  = "feedback_record.json"
	summaryFileName = "feedback_summary.json"
)

// Load reads all feedback records under dataDir into a corpus.
// The expected layout is one directory per summary containing a
// feedback_record.json file. Directories without a readable record are
// skipped; a missing or corrupt record is not an error. Directory
// entries are visited in lexical order, which fixes corpus iteration
// order across runs.
func Load(dataDir string) (*Corpus, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	c := New()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		record, err := readRecord(filepath.Join(dataDir, entry.Name(), recordFileName))
		if err != nil {
			continue
		}
		id := record.ID
		content := record.Content()
		if id == "" || content == "" {
			continue
		}
		c.Add(id, content)
	}
	return c, nil
}

// Pair is one summary directory with both files decoded.
type Pair struct {
	SummaryID string
	Summary   *models.FeedbackSummary
	Record    *models.FeedbackRecord
}

// LoadPairs reads summary/record pairs under dataDir for indexing.
// Directories missing either file are skipped.
func LoadPairs(dataDir string) ([]*Pair, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var pairs []*Pair
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(dataDir, entry.Name())
		summary, err := readSummary(filepath.Join(dir, summaryFileName))
		if err != nil {
			continue
		}
		record, err := readRecord(filepath.Join(dir, recordFileName))
		if err != nil {
			continue
		}
		pairs = append(pairs, &Pair{
			SummaryID: entry.Name(),
			Summary:   summary,
			Record:    record,
		})
	}
	return pairs, nil
}

func readRecord(path string) (*models.FeedbackRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record models.FeedbackRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &record, nil
}

func readSummary(path string) (*models.FeedbackSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var summary models.FeedbackSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &summary, nil
}
