package sheets

import "fmt"

// chapterSheetCounts lists how many sheets each chapter of the course
// material contains. Sheet names follow the M6CH[chapter:2][number:3]
// convention, e.g. M6CH01001 through M6CH06029.
var chapterSheetCounts = []struct {
	chapter int
	count   int
}{
	{1, 34},
	{2, 31},
	{3, 31},
	{4, 29},
	{5, 28},
	{6, 29},
}

// TotalSheets is the number of sheets across all chapters.
const TotalSheets = 182

// GenerateSheetNames produces the sheet names for the 1-based global
// range [start, end], following the chapter layout of the spreadsheet.
func GenerateSheetNames(start, end int) []string {
	if start < 1 {
		start = 1
	}

	var names []string
	globalIndex := 0

	for _, ch := range chapterSheetCounts {
		for num := 1; num <= ch.count; num++ {
			globalIndex++
			if globalIndex < start {
				continue
			}
			if globalIndex > end {
				return names
			}
			names = append(names, fmt.Sprintf("M6CH%02d%03d", ch.chapter, num))
		}
	}

	return names
}
