package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/draganv/speedwatch-backend-go/internal/violation"
)

const outputSuffix = "_violations.json"

// FileResult records the outcome of one telemetry file.
type FileResult struct {
	File       string `json:"file"`
	Violations int    `json:"violations"`
	Error      string `json:"error,omitempty"`
}

// Summary describes one batch run over a directory of telemetry files.
type Summary struct {
	RunID           string       `json:"run_id"`
	Files           int          `json:"files"`
	Failed          int          `json:"failed"`
	TotalViolations int          `json:"total_violations"`
	Results         []FileResult `json:"results"`
}

// Processor runs the violation checker over every telemetry file in a
// directory. Files are processed in parallel up to the worker cap; each file
// gets its own segmenter and coordinate cache, and a failing file is
// reported in the summary without aborting the rest of the batch.
type Processor struct {
	checker   *violation.Checker
	inputDir  string
	outputDir string
	workers   int
}

// NewProcessor creates a batch processor.
func NewProcessor(checker *violation.Checker, inputDir, outputDir string, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		checker:   checker,
		inputDir:  inputDir,
		outputDir: outputDir,
		workers:   workers,
	}
}

// Run discovers telemetry files, checks each one, and writes one
// <stem>_violations.json document per input. Previously produced violation
// files are skipped during discovery.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	files, err := p.discover()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := &Summary{
		RunID: uuid.NewString(),
		Files: len(files),
	}
	log.Printf("[Batch] Run %s: processing %d files with %d workers", summary.RunID, len(files), p.workers)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := p.processFile(file)

			mu.Lock()
			summary.Results = append(summary.Results, result)
			if result.Error != "" {
				summary.Failed++
			} else {
				summary.TotalViolations += result.Violations
			}
			mu.Unlock()

			// Per-file failures stay in the summary; only cancellation
			// stops the batch.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].File < summary.Results[j].File
	})

	log.Printf("[Batch] Run %s done: %d files, %d failed, %d violations",
		summary.RunID, summary.Files, summary.Failed, summary.TotalViolations)
	return summary, nil
}

// discover lists input telemetry files in name order.
func (p *Processor) discover() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(p.inputDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, m := range matches {
		if strings.HasSuffix(filepath.Base(m), outputSuffix) {
			continue
		}
		files = append(files, m)
	}

	sort.Strings(files)
	return files, nil
}

func (p *Processor) processFile(path string) FileResult {
	name := filepath.Base(path)
	result := FileResult{File: name}

	raw, err := os.ReadFile(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	doc, err := p.checker.CheckDocument(stem, raw)
	if err != nil {
		log.Printf("[Batch] Error processing %s: %v", name, err)
		result.Error = err.Error()
		return result
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		result.Error = fmt.Sprintf("failed to encode timeline: %v", err)
		return result
	}

	outPath := filepath.Join(p.outputDir, stem+outputSuffix)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		result.Error = fmt.Sprintf("failed to write timeline: %v", err)
		return result
	}

	result.Violations = len(doc.Events)
	return result
}
