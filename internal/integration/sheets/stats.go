package sheets

import "github.com/edurag/knowledge-backend/internal/entity"

// Stats summarizes fetched sheet data before chunking.
type Stats struct {
	Sheets      int            `json:"sheets"`
	TotalRows   int            `json:"totalRows"`
	RowsBySheet map[string]int `json:"rowsBySheet"`
	BySection   map[string]int `json:"bySection"`
	ByType      map[string]int `json:"byType"`
}

// ComputeStats gathers row distribution statistics over fetched sheets.
func ComputeStats(rowsBySheet map[string][]entity.SourceRow) Stats {
	stats := Stats{
		Sheets:      len(rowsBySheet),
		RowsBySheet: make(map[string]int, len(rowsBySheet)),
		BySection:   make(map[string]int),
		ByType:      make(map[string]int),
	}

	for name, rows := range rowsBySheet {
		stats.RowsBySheet[name] = len(rows)
		stats.TotalRows += len(rows)
		for _, row := range rows {
			stats.BySection[row.Section]++
			stats.ByType[row.Type]++
		}
	}

	return stats
}
