// Package pipeline generates many block documents concurrently.
//
// Every input gets its own generation pass, so helper order and identifier
// choice depend only on that input. Workers bound how many passes run at
// once; outputs come back in input order regardless.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/blockgen/codegen"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
	"github.com/teranos/blockgen/source"
)

// Output is the outcome of generating one input
type Output struct {
	Input  *source.Input
	Result *codegen.Result // nil when Err is set
	Err    error
}

// Pipeline runs a generator over inputs
type Pipeline struct {
	gen     codegen.Generator
	workers int
}

// New creates a pipeline. workers <= 0 means one per CPU.
func New(gen codegen.Generator, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{gen: gen, workers: workers}
}

// Generator returns the generator the pipeline runs
func (p *Pipeline) Generator() codegen.Generator {
	return p.gen
}

// Resolve resolves every argument concurrently. On failure, inputs that
// were already resolved are cleaned up.
func (p *Pipeline) Resolve(ctx context.Context, args []string) ([]*source.Input, error) {
	inputs := make([]*source.Input, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, arg := range args {
		g.Go(func() error {
			in, err := source.Resolve(gctx, arg)
			if err != nil {
				return err
			}
			inputs[i] = in
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		Cleanup(inputs)
		return nil, err
	}
	return inputs, nil
}

// Run generates every input. Per-input failures are reported in the
// matching Output; the returned error is only for cancellation.
func (p *Pipeline) Run(ctx context.Context, inputs []*source.Input) ([]*Output, error) {
	start := time.Now()
	outputs := make([]*Output, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = p.generate(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debugw("Pipeline finished",
		logger.FieldCount, len(inputs),
		logger.FieldWorkers, p.workers,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return outputs, nil
}

func (p *Pipeline) generate(in *source.Input) *Output {
	out := &Output{Input: in}

	doc, err := in.Load()
	if err != nil {
		out.Err = err
		return out
	}

	result, err := p.gen.Generate(doc.Blocks)
	if err != nil {
		out.Err = errors.Wrapf(err, "input %s", in.Original)
		return out
	}
	out.Result = result

	logger.Debugw("Generated input",
		logger.FieldSource, in.Original,
		logger.FieldDigest, result.Fingerprint())
	return out
}

// Failed returns the outputs whose generation failed
func Failed(outputs []*Output) []*Output {
	var failed []*Output
	for _, out := range outputs {
		if out.Err != nil {
			failed = append(failed, out)
		}
	}
	return failed
}

// Cleanup releases every non-nil input
func Cleanup(inputs []*source.Input) {
	for _, in := range inputs {
		if in != nil {
			in.Cleanup()
		}
	}
}
