package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

// AnalyzeFunc analyzes one batch input (a file path, URL or headline)
type AnalyzeFunc func(ctx context.Context, input string) (*model.Report, error)

// BatchJob analyzes a single input
type BatchJob struct {
	Index   int
	Input   string
	Analyze AnalyzeFunc
}

// Execute runs the analysis and records its duration
func (j *BatchJob) Execute(ctx context.Context) Result {
	start := time.Now()
	report, err := j.Analyze(ctx, j.Input)
	return &BatchResult{
		Index:    j.Index,
		Input:    j.Input,
		Report:   report,
		Error:    err,
		Duration: time.Since(start),
	}
}

// BatchResult is the outcome of one batch input
type BatchResult struct {
	Index    int
	Input    string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the batch result
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many inputs with bounded concurrency
type BatchProcessor struct {
	analyze     AnalyzeFunc
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyze AnalyzeFunc, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyze:     analyze,
		concurrency: concurrency,
	}
}

// Process analyzes inputs concurrently and returns results in input order.
// Inputs not started before ctx is cancelled get ctx.Err() as their error.
func (b *BatchProcessor) Process(ctx context.Context, inputs []string) []*BatchResult {
	if len(inputs) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, in := range inputs {
		if err := pool.Submit(&BatchJob{Index: i, Input: in, Analyze: b.analyze}); err != nil {
			break
		}
	}

	raw := pool.Wait()

	results := make([]*BatchResult, len(inputs))
	for _, r := range raw {
		br := r.(*BatchResult)
		results[br.Index] = br
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = ErrPoolClosed
			}
			results[i] = &BatchResult{Index: i, Input: inputs[i], Error: err}
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ProcessFile reads inputs from a list file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	inputs, err := ReadLines(filePath)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}

	return b.Process(ctx, inputs), nil
}

// ReadLines reads one input per line, skipping blanks and # comments, deduplicated
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
