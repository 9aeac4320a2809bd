package ingest

import (
	"time"

	"github.com/edurag/knowledge-backend/internal/chunker"
	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/integration/sheets"
)

// Request selects what to ingest. StartSheet and EndSheet are 1-based
// global sheet indices; Purge wipes the category's existing records
// before storing new ones.
type Request struct {
	StartSheet int
	EndSheet   int
	Purge      bool
}

// SheetReport describes the outcome of ingesting a single sheet.
type SheetReport struct {
	SheetName string `json:"sheetName"`
	Rows      int    `json:"rows"`
	Chunks    int    `json:"chunks"`
	Stored    int    `json:"stored"`
	Error     string `json:"error,omitempty"`
}

// Report summarizes a full ingestion run.
type Report struct {
	Category     entity.Category `json:"category"`
	StartedAt    time.Time       `json:"startedAt"`
	FinishedAt   time.Time       `json:"finishedAt"`
	PurgedCount  int64           `json:"purgedCount"`
	Sheets       []SheetReport   `json:"sheets"`
	TotalRows    int             `json:"totalRows"`
	TotalChunks  int             `json:"totalChunks"`
	TotalStored  int             `json:"totalStored"`
	FailedSheets int             `json:"failedSheets"`
	// CategoryTotal is the record count of the whole category after the
	// run, including records from earlier runs unless purged.
	CategoryTotal int64 `json:"categoryTotal"`
	SourceStats  sheets.Stats    `json:"sourceStats"`
	ChunkStats   chunker.Stats   `json:"chunkStats"`
}
