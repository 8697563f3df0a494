package smsparser

import (
	"context"
	"runtime"
	"sync"

	"fjacquet/sms-ledger/internal/logging"
)

// sequentialThreshold is the batch size below which ParseAll skips the worker pool.
const sequentialThreshold = 100

// BatchProcessor parses many messages, fanning out over a worker pool for
// large batches. Results keep input order.
type BatchProcessor struct {
	parser      *Parser
	logger      logging.Logger
	workerCount int
}

// NewBatchProcessor creates a processor with one worker per CPU.
func NewBatchProcessor(parser *Parser, logger logging.Logger) *BatchProcessor {
	if logger == nil {
		logger = parser.logger
	}
	return &BatchProcessor{
		parser:      parser,
		logger:      logger,
		workerCount: runtime.NumCPU(),
	}
}

// ParseAll parses every sample. When ctx is cancelled, samples not yet
// parsed are returned with ctx.Err() as their error.
func (bp *BatchProcessor) ParseAll(ctx context.Context, samples []Sample) []SampleResult {
	if len(samples) < sequentialThreshold || bp.workerCount < 2 {
		return bp.parseSequential(ctx, samples)
	}
	return bp.parseConcurrent(ctx, samples)
}

func (bp *BatchProcessor) parseSequential(ctx context.Context, samples []Sample) []SampleResult {
	results := make([]SampleResult, len(samples))
	for i, s := range samples {
		results[i] = bp.parseOne(ctx, s)
	}
	return results
}

type indexedSample struct {
	index  int
	sample Sample
}

func (bp *BatchProcessor) parseConcurrent(ctx context.Context, samples []Sample) []SampleResult {
	results := make([]SampleResult, len(samples))
	work := make(chan indexedSample, bp.workerCount)

	var wg sync.WaitGroup
	for i := 0; i < bp.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				// Each index is written by exactly one worker.
				results[item.index] = bp.parseOne(ctx, item.sample)
			}
		}()
	}

	for i, s := range samples {
		work <- indexedSample{index: i, sample: s}
	}
	close(work)
	wg.Wait()

	bp.logger.Debug("Concurrent parsing completed",
		logging.F(logging.FieldCount, len(samples)),
		logging.F("workers", bp.workerCount))
	return results
}

func (bp *BatchProcessor) parseOne(ctx context.Context, s Sample) SampleResult {
	if err := ctx.Err(); err != nil {
		return SampleResult{Sample: s, Err: err}
	}
	tx, err := bp.parser.Parse(s.Message, s.Sender)
	return SampleResult{Sample: s, Transaction: tx, Err: err}
}
