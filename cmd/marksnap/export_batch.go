package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alnah/go-marksnap"
)

// JobResult holds the outcome of a single document export.
type JobResult struct {
	InputPath string
	OutputDir string
	Files     []marksnap.ExportedFile
	Err       error
	Duration  time.Duration
}

// batchParams groups settings shared by every document of a batch.
type batchParams struct {
	mode        marksnap.CanvasMode
	customWidth int
	theme       marksnap.ThemeConfig
}

// exportBatch processes jobs concurrently using the converter pool.
// Each document is exported sequentially by one converter.
func exportBatch(ctx context.Context, pool Pool, jobs []ExportJob, params *batchParams) []JobResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]JobResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range queue {
					results[idx] = JobResult{InputPath: jobs[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = JobResult{InputPath: jobs[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = exportJob(ctx, conv, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// exportJob exports a single file and returns the result.
func exportJob(ctx context.Context, conv exporter, job ExportJob, params *batchParams) JobResult {
	start := time.Now()
	result := JobResult{InputPath: job.InputPath, OutputDir: job.OutputDir}

	content, err := readMarkdown(job.InputPath, nil)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	res, err := conv.Export(ctx, marksnap.Input{
		Markdown:    content,
		SourceDir:   sourceDirOf(job.InputPath),
		Mode:        params.mode,
		CustomWidth: params.customWidth,
		Theme:       params.theme,
	}, marksnap.NewDirSink(job.OutputDir))
	if res != nil {
		result.Files = res.Files
	}
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed documents.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Images    int
}

// countResults tallies succeeded and failed documents.
func countResults(results []JobResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		summary.Images += len(r.Files)
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs batch results and returns an error wrapping the first
// failure, if any.
func printResults(results []JobResult, quiet, verbose bool, stdout, stderr io.Writer) error {
	summary := countResults(results)
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}

		if quiet {
			continue
		}

		if len(r.Files) == 0 {
			fmt.Fprintf(stdout, "Skipped %s: nothing to export\n", r.InputPath)
			continue
		}
		if verbose {
			fmt.Fprintf(stdout, "%s -> %d images in %s (%v)\n", r.InputPath, len(r.Files), r.OutputDir, r.Duration.Round(time.Millisecond))
			continue
		}
		for _, f := range r.Files {
			fmt.Fprintf(stdout, "Created %s\n", f.Location)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed, %d images\n", summary.Succeeded, summary.Failed, summary.Images)
	}

	if firstErr != nil {
		return fmt.Errorf("%d of %d documents failed: %w", summary.Failed, len(results), firstErr)
	}
	return nil
}
