package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/edurag/knowledge-backend/internal/builder"
	"github.com/edurag/knowledge-backend/internal/integration/sheets"
	"github.com/edurag/knowledge-backend/internal/usecase/ingest"
	"go.uber.org/zap"
)

func main() {
	startSheet := flag.Int("start", 1, "first sheet of the range (1-based global index)")
	endSheet := flag.Int("end", sheets.TotalSheets, "last sheet of the range (inclusive)")
	purge := flag.Bool("purge", false, "delete the category's existing records before ingesting")
	reportPath := flag.String("report", "", "write the ingestion report to this file")
	reportFormat := flag.String("report-format", "json", "report format: json or markdown")

	// LoadConfig parses the flag set, picking up the flags above together
	// with its own -env flag.
	ingestUC, db, logger, err := builder.BuildIngest()
	if err != nil {
		log.Fatal("Failed to build ingestion pipeline:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal, cancelling ingestion",
			zap.String("signal", sig.String()))
		cancel()
	}()

	report, err := ingestUC.Run(ctx, ingest.Request{
		StartSheet: *startSheet,
		EndSheet:   *endSheet,
		Purge:      *purge,
	})
	if err != nil {
		logger.Error("ingestion failed", zap.Error(err))
		os.Exit(1)
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, *reportFormat, report); err != nil {
			logger.Error("failed to write report", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("report written", zap.String("path", *reportPath))
	}

	fmt.Printf("Ingested %d chunks from %d rows (%d sheets failed)\n",
		report.TotalStored, report.TotalRows, report.FailedSheets)
}

func writeReport(path, format string, report *ingest.Report) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "json":
		data, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
	case "markdown":
		data = []byte(renderMarkdownReport(report))
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

func renderMarkdownReport(report *ingest.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Ingestion Report (%s)\n\n", report.Category)
	fmt.Fprintf(&sb, "- Started: %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Finished: %s\n", report.FinishedAt.Format(time.RFC3339))
	if report.PurgedCount > 0 {
		fmt.Fprintf(&sb, "- Purged records: %d\n", report.PurgedCount)
	}
	fmt.Fprintf(&sb, "- Rows: %d, chunks: %d, stored: %d, failed sheets: %d\n",
		report.TotalRows, report.TotalChunks, report.TotalStored, report.FailedSheets)
	fmt.Fprintf(&sb, "- Category records after run: %d\n\n", report.CategoryTotal)

	fmt.Fprintf(&sb, "Token stats: avg %d, min %d, max %d\n\n",
		report.ChunkStats.AverageTokens, report.ChunkStats.MinTokens, report.ChunkStats.MaxTokens)

	sb.WriteString("| Sheet | Rows | Chunks | Stored | Error |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, sheet := range report.Sheets {
		fmt.Fprintf(&sb, "| %s | %d | %d | %d | %s |\n",
			sheet.SheetName, sheet.Rows, sheet.Chunks, sheet.Stored, sheet.Error)
	}

	return sb.String()
}
