package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-marksnap"
)

// ExportJob is one markdown file and the directory its images go to.
type ExportJob struct {
	InputPath string
	OutputDir string
}

// discoverFiles expands inputs into export jobs.
//
// A file's images go to outputDir, or next to the file when outputDir is
// empty. Files found under a directory get their own folder named after
// the file, mirroring the tree below that directory, so documents with the
// same first heading never overwrite each other.
func discoverFiles(inputs []string, outputDir string) ([]ExportJob, error) {
	var jobs []ExportJob

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(input); err != nil {
				return nil, err
			}
			dir := outputDir
			if dir == "" {
				dir = filepath.Dir(input)
			}
			jobs = append(jobs, ExportJob{InputPath: input, OutputDir: dir})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !isMarkdownFile(path) {
				return nil
			}
			jobs = append(jobs, ExportJob{
				InputPath: path,
				OutputDir: resolveOutputDir(path, outputDir, input),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

// resolveOutputDir returns the image folder for a file found under baseDir.
func resolveOutputDir(inputPath, outputDir, baseDir string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	root := outputDir
	if root == "" {
		root = baseDir
	}

	rel, err := filepath.Rel(baseDir, filepath.Dir(inputPath))
	if err != nil {
		rel = "."
	}
	return filepath.Join(root, rel, stem)
}

func isMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > marksnap.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, marksnap.MaxPoolSize)
	}
	return nil
}
