// Package fixture loads review-tracking issues from a local JSON file.
package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ryo246912/gh-review-registry/internal/models"
)

// Load reads issues from path. The file holds either a JSON list of issues or
// a saved search response with an "items" list.
func Load(path string) ([]models.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture contents
func Parse(data []byte) ([]models.Issue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("fixture is empty")
	}

	switch data[0] {
	case '[':
		var issues []models.Issue
		if err := json.Unmarshal(data, &issues); err != nil {
			return nil, fmt.Errorf("failed to parse fixture issues: %w", err)
		}
		return issues, nil
	case '{':
		var resp struct {
			Items *[]models.Issue `json:"items"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse fixture search response: %w", err)
		}
		if resp.Items == nil {
			return nil, fmt.Errorf("fixture object has no \"items\" list")
		}
		return *resp.Items, nil
	default:
		return nil, fmt.Errorf("fixture must be a list of issues or a search response with \"items\"")
	}
}
