package util

import (
	"strings"
	"time"

	"github.com/nakachan-ing/taskboard/internal/model"
)

// FullTextSearch keeps tasks whose title or content contains query,
// ignoring case. Order is preserved.
func FullTextSearch(tasks []model.Task, query string) []model.Task {
	if query == "" {
		return tasks
	}

	query = strings.ToLower(query)
	filtered := []model.Task{}

	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), query) ||
			strings.Contains(strings.ToLower(task.Content), query) {
			filtered = append(filtered, task)
		}
	}

	return filtered
}

// FilterByDeadline keeps tasks whose deadline lies within [fromDate, toDate].
// Either bound may be empty.
func FilterByDeadline(tasks []model.Task, fromDate, toDate string) []model.Task {
	if fromDate == "" && toDate == "" {
		return tasks
	}

	filtered := []model.Task{}
	for _, task := range tasks {
		if IsWithinDateRange(task.Deadline.String(), fromDate, toDate) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// IsWithinDateRange reports whether a YYYY-MM-DD date lies in the inclusive
// range. Unparseable bounds are ignored.
func IsWithinDateRange(date string, fromDate, toDate string) bool {
	if fromDate == "" && toDate == "" {
		return true
	}

	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}

	if fromDate != "" {
		fromTime, err := time.Parse("2006-01-02", fromDate)
		if err == nil && t.Before(fromTime) {
			return false
		}
	}

	if toDate != "" {
		toTime, err := time.Parse("2006-01-02", toDate)
		if err == nil && t.After(toTime) {
			return false
		}
	}

	return true
}
