package service

import (
	"context"
	"log"
	"os"

	"jsonl2csv/models"
	"jsonl2csv/validation"
)

const (
	PhaseSynthesis  = "synthesis"
	PhaseExecution  = "execution"
	PhaseValidation = "validation"
)

// Synthesizer produces a runnable program from the sampled schema, the
// optional user instruction and the previous attempt's error text.
type Synthesizer interface {
	GenerateParser(ctx context.Context, sample, instruction, priorError string) (string, error)
}

// Executor runs a generated program against the job's input/output paths.
type Executor interface {
	Execute(ctx context.Context, program, inputPath, outputPath string) ExecutionResult
}

// ValidateFunc checks the produced artifact.
type ValidateFunc func(outputPath string) validation.Result

// Job is one conversion request; immutable for its lifetime.
type Job struct {
	InputPath   string
	OutputPath  string
	Sample      string
	Instruction string
	MaxAttempts int
}

// Outcome is the terminal state of a job. Exactly one of Succeeded=true or a
// non-empty Errors list describes what happened; Attempts never exceeds the
// job's budget.
type Outcome struct {
	Succeeded  bool
	Attempts   int
	Code       string
	Validation validation.Result
	Errors     []models.AttemptError
}

// Converter is the retry-and-repair loop: synthesize, execute, validate,
// and on failure feed the concrete error into the next synthesis prompt.
type Converter struct {
	synth       Synthesizer
	exec        Executor
	validate    ValidateFunc
	maxAttempts int
}

func NewConverter(synth Synthesizer, exec Executor, validate ValidateFunc, maxAttempts int) *Converter {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Converter{
		synth:       synth,
		exec:        exec,
		validate:    validate,
		maxAttempts: maxAttempts,
	}
}

// Convert runs the attempt loop until the artifact validates or the budget is
// exhausted. Context cancellation abandons the in-flight attempt and returns
// the context error with no partial outcome.
func (c *Converter) Convert(ctx context.Context, job Job) (*Outcome, error) {
	maxAttempts := job.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = c.maxAttempts
	}

	outcome := &Outcome{}
	priorError := ""

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		outcome.Attempts = attempt

		program, err := c.synth.GenerateParser(ctx, job.Sample, job.Instruction, priorError)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[CONVERT] Attempt %d/%d synthesis failed: %v", attempt, maxAttempts, err)
			priorError = err.Error()
			outcome.Errors = append(outcome.Errors, models.AttemptError{Attempt: attempt, Phase: PhaseSynthesis, Message: priorError})
			continue
		}

		// A failed attempt's artifact must not leak into the next one.
		os.Remove(job.OutputPath)

		res := c.exec.Execute(ctx, program, job.InputPath, job.OutputPath)
		if !res.OK {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[CONVERT] Attempt %d/%d execution failed: %s", attempt, maxAttempts, res.Error)
			priorError = res.Error
			outcome.Errors = append(outcome.Errors, models.AttemptError{Attempt: attempt, Phase: PhaseExecution, Message: priorError})
			continue
		}

		v := c.validate(job.OutputPath)
		if !v.OK {
			log.Printf("[CONVERT] Attempt %d/%d validation failed: %s", attempt, maxAttempts, v.Reason)
			priorError = v.Reason
			outcome.Errors = append(outcome.Errors, models.AttemptError{Attempt: attempt, Phase: PhaseValidation, Message: priorError})
			continue
		}

		log.Printf("[CONVERT] Succeeded on attempt %d with %d rows, %d columns", attempt, v.RowCount, len(v.Columns))
		outcome.Succeeded = true
		outcome.Code = program
		outcome.Validation = v
		return outcome, nil
	}

	return outcome, nil
}
