package voicebridge

import (
	"fmt"
	"strings"
)

// Fixed page sizes, matching the backend's defaults so pagination
// behaves identically in both modes.
const (
	lessonPageSize  = 6
	historyPageSize = 20
)

// paginate slices items into the 1-indexed page of the given size.
// previous is set iff page > 1; next iff further items remain. Pages
// past the end yield empty results with the full count and no next
// locator.
func paginate[T any](items []T, page, pageSize int, path string) Page[T] {
	if page < 1 {
		page = 1
	}
	total := len(items)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	p := Page[T]{Results: items[start:end], Count: total}
	if p.Results == nil {
		p.Results = []T{}
	}
	if page*pageSize < total {
		next := fmt.Sprintf("%s?page=%d", path, page+1)
		p.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("%s?page=%d", path, page-1)
		p.Previous = &previous
	}
	return p
}

// filterLessons applies the language, category, and search constraints,
// ANDed together, before pagination. "all" or empty values match
// everything.
func filterLessons(lessons []Lesson, f LessonFilter) []Lesson {
	search := strings.ToLower(f.Search)
	out := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		if f.Language != "" && f.Language != "all" && l.Language != f.Language {
			continue
		}
		if f.Category != "" && f.Category != "all" && l.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Title), search) &&
			!strings.Contains(strings.ToLower(l.Body), search) {
			continue
		}
		out = append(out, l)
	}
	return out
}
