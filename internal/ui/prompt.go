package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ryo246912/gh-review-registry/internal/review"
)

// SelectEntry shows the registry entries and returns the chosen review id
func SelectEntry(reg *review.Registry) (string, error) {
	keys := reg.Keys()
	if len(keys) == 0 {
		return "", fmt.Errorf("no registry entries")
	}

	items := FormatRegistry(reg)
	prompt := promptui.Select{
		Label: "Select review",
		Items: items,
		Size:  12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		StartInSearchMode: true,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return keys[idx], nil
}
