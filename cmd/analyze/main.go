// Command analyze loads a directory of branch sales spreadsheets as one
// batch and prints the summary statistics, cross-branch insights and
// assistant digest as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"salespulse/internal/config"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

func main() {
	dir := flag.String("dir", ".", "directory containing branch XLSX files")
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	files, err := readBranchFiles(*dir)
	if err != nil {
		logger.Error("failed to read input directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no .xlsx files found", slog.String("dir", *dir))
		os.Exit(1)
	}

	service := services.NewAnalysisService(cfg, logger, nil)
	ds, err := service.LoadBranchFiles(context.Background(), files)
	if err != nil {
		if err == services.ErrEmptyDataset {
			logger.Error("no valid sales data in any file")
		} else {
			logger.Error("batch load failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	stats, _ := service.BranchSummaryStats()
	insights, _ := service.CrossBranchInsights()
	digest, _ := service.PrepareDigestForAssistant()

	report := map[string]interface{}{
		"batch_id": ds.BatchID.String(),
		"branches": ds.Branches,
		"summary":  stats,
		"insights": insights,
		"digest":   digest,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logger.Error("failed to encode report", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// readBranchFiles loads every .xlsx file in dir into memory as a batch.
func readBranchFiles(dir string) ([]domain.SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []domain.SourceFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, domain.SourceFile{Name: entry.Name(), Data: data})
	}
	return files, nil
}
