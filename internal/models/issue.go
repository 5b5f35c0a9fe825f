package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Issue represents a review-tracking issue as consumed by the registry builder
type Issue struct {
	Number    int       `json:"number"`
	URL       string    `json:"html_url"`
	Body      string    `json:"body"`
	Labels    Labels    `json:"labels"`
	Assignees []User    `json:"assignees"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// Labels is a list of label names. The REST API returns label objects while
// hand-written fixtures usually list plain strings; both decode here.
type Labels []string

func (l *Labels) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("labels must be a list: %w", err)
	}

	names := make(Labels, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			names = append(names, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("invalid label %s: %w", string(item), err)
		}
		if obj.Name != "" {
			names = append(names, obj.Name)
		}
	}
	*l = names
	return nil
}

// AssigneeLogins returns the non-empty assignee logins in order
func (i Issue) AssigneeLogins() []string {
	logins := make([]string, 0, len(i.Assignees))
	for _, a := range i.Assignees {
		if a.Login != "" {
			logins = append(logins, a.Login)
		}
	}
	return logins
}

// SearchResponse is the shape of the REST search endpoint, also accepted as a fixture
type SearchResponse struct {
	TotalCount int     `json:"total_count"`
	Items      []Issue `json:"items"`
}
