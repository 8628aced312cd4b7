package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/draganv/speedwatch-backend-go/internal/batch"
	"github.com/draganv/speedwatch-backend-go/internal/config"
	"github.com/draganv/speedwatch-backend-go/internal/database"
	"github.com/draganv/speedwatch-backend-go/internal/repository"
	"github.com/draganv/speedwatch-backend-go/internal/violation"
)

func main() {
	cfg := config.Load()

	inputDir := flag.String("input", cfg.InputDir, "directory with telemetry JSON files")
	outputDir := flag.String("output", cfg.OutputDir, "directory for violation timeline files")
	dbPath := flag.String("db", cfg.DBPath, "speed-limit index database path")
	extract := flag.String("import", "", "OSM speed-limit extract JSON to import before the run")
	threshold := flag.Float64("threshold", cfg.ViolationThreshold, "violation margin in km/h over the limit")
	workers := flag.Int("workers", cfg.BatchWorkers, "number of parallel file workers")
	flag.Parse()

	if err := database.Init(database.Config{Path: *dbPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	index := repository.NewLimitRepository(database.GetDB())

	if *extract != "" {
		imported, err := index.ImportExtract(*extract)
		if err != nil {
			log.Fatal("Failed to import speed-limit extract:", err)
		}
		log.Printf("[Checker] Imported %d speed-limit features from %s", imported, *extract)
	}

	total, err := index.Count()
	if err != nil {
		log.Fatal("Failed to read speed-limit index:", err)
	}
	if total == 0 {
		log.Fatal("Speed-limit index is empty; import an extract with -import first")
	}
	log.Printf("[Checker] Speed-limit index loaded: %d features", total)

	checker := violation.NewChecker(index, *threshold)
	processor := batch.NewProcessor(checker, *inputDir, *outputDir, *workers)

	summary, err := processor.Run(context.Background())
	if err != nil {
		log.Fatal("Batch run failed:", err)
	}

	fmt.Println("Summary:")
	fmt.Printf("  - Run ID: %s\n", summary.RunID)
	fmt.Printf("  - Processed %d metadata files (%d failed)\n", summary.Files, summary.Failed)
	fmt.Printf("  - Total violations found: %d\n", summary.TotalViolations)
	fmt.Printf("  - Output directory: %s\n", *outputDir)
	for _, r := range summary.Results {
		if r.Error != "" {
			fmt.Printf("  - FAILED %s: %s\n", r.File, r.Error)
		}
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
