package service

// ListResult aggregates one page of records.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > 100 {
		return 100
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// pageOf fills result with the requested page of items already filtered in memory.
func pageOf[T any](result *ListResult[T], items []T) {
	result.Total = int64(len(items))
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	start := (result.Page - 1) * result.PerPage
	if start > len(items) {
		start = len(items)
	}
	end := start + result.PerPage
	if end > len(items) {
		end = len(items)
	}
	result.Items = items[start:end]
}
