package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonl2csv/validation"
)

// fakeSynthesizer returns scripted programs/errors and records the priorError
// passed to each call.
type fakeSynthesizer struct {
	programs    []string
	errs        []error
	priorErrors []string
}

func (f *fakeSynthesizer) GenerateParser(ctx context.Context, sample, instruction, priorError string) (string, error) {
	i := len(f.priorErrors)
	f.priorErrors = append(f.priorErrors, priorError)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.programs) {
		return f.programs[i], nil
	}
	return "program", nil
}

type fakeExecutor struct {
	results []ExecutionResult
	calls   int
}

func (f *fakeExecutor) Execute(ctx context.Context, program, inputPath, outputPath string) ExecutionResult {
	i := f.calls
	f.calls++
	if i < len(f.results) {
		return f.results[i]
	}
	return ExecutionResult{OK: true}
}

func scriptedValidator(results ...validation.Result) ValidateFunc {
	i := 0
	return func(outputPath string) validation.Result {
		r := results[i%len(results)]
		i++
		return r
	}
}

func passResult() validation.Result {
	return validation.Result{OK: true, Columns: []string{"a", "b"}, RowCount: 2}
}

func TestConvertFirstAttemptSucceeds(t *testing.T) {
	synth := &fakeSynthesizer{programs: []string{"p1"}}
	exec := &fakeExecutor{}
	conv := NewConverter(synth, exec, scriptedValidator(passResult()), 3)

	outcome, err := conv.Convert(context.Background(), Job{OutputPath: filepath.Join(t.TempDir(), "out.csv")})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, "p1", outcome.Code)
	assert.Empty(t, outcome.Errors)
	// No wasted synthesis calls after success.
	assert.Len(t, synth.priorErrors, 1)
}

func TestConvertRepairsAfterExecutionFailure(t *testing.T) {
	synth := &fakeSynthesizer{programs: []string{"p1", "p2"}}
	exec := &fakeExecutor{results: []ExecutionResult{
		{OK: false, Error: "NameError: name 'jsn' is not defined"},
		{OK: true},
	}}
	conv := NewConverter(synth, exec, scriptedValidator(passResult()), 3)

	outcome, err := conv.Convert(context.Background(), Job{OutputPath: filepath.Join(t.TempDir(), "out.csv")})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Attempts)
	assert.Equal(t, "p2", outcome.Code)

	// The second synthesis call must carry the first attempt's exact error.
	require.Len(t, synth.priorErrors, 2)
	assert.Empty(t, synth.priorErrors[0])
	assert.Equal(t, "NameError: name 'jsn' is not defined", synth.priorErrors[1])

	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, PhaseExecution, outcome.Errors[0].Phase)
	assert.Equal(t, 1, outcome.Errors[0].Attempt)
}

func TestConvertExhaustsBudgetOnValidationFailures(t *testing.T) {
	synth := &fakeSynthesizer{}
	exec := &fakeExecutor{}
	conv := NewConverter(synth, exec, scriptedValidator(validation.Result{OK: false, Reason: "no data rows"}), 3)

	outcome, err := conv.Convert(context.Background(), Job{OutputPath: filepath.Join(t.TempDir(), "out.csv")})
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, 3, outcome.Attempts)
	require.Len(t, outcome.Errors, 3)
	for i, attemptErr := range outcome.Errors {
		assert.Equal(t, i+1, attemptErr.Attempt)
		assert.Equal(t, PhaseValidation, attemptErr.Phase)
		assert.Equal(t, "no data rows", attemptErr.Message)
	}
	assert.Len(t, synth.priorErrors, 3)
}

func TestConvertThreadsLatestErrorOnly(t *testing.T) {
	// Attempt 1 fails in execution, attempt 2 in validation, attempt 3
	// succeeds; each retry prompt must carry the immediately preceding
	// reason, never a stale one.
	synth := &fakeSynthesizer{}
	exec := &fakeExecutor{results: []ExecutionResult{
		{OK: false, Error: "first failure"},
		{OK: true},
		{OK: true},
	}}
	validator := scriptedValidator(
		validation.Result{OK: false, Reason: "second failure"},
		passResult(),
	)
	conv := NewConverter(synth, exec, validator, 3)

	outcome, err := conv.Convert(context.Background(), Job{OutputPath: filepath.Join(t.TempDir(), "out.csv")})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 3, outcome.Attempts)
	require.Equal(t, []string{"", "first failure", "second failure"}, synth.priorErrors)
}

func TestConvertSynthesisFailureCountsAgainstBudget(t *testing.T) {
	synth := &fakeSynthesizer{
		errs:     []error{errors.New("no code found in model response"), nil},
		programs: []string{"", "p2"},
	}
	exec := &fakeExecutor{}
	conv := NewConverter(synth, exec, scriptedValidator(passResult()), 3)

	outcome, err := conv.Convert(context.Background(), Job{OutputPath: filepath.Join(t.TempDir(), "out.csv")})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Attempts)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, PhaseSynthesis, outcome.Errors[0].Phase)
	assert.Equal(t, "no code found in model response", synth.priorErrors[1])
}

func TestConvertAllSynthesisFailuresTerminal(t *testing.T) {
	synthErr := errors.New("API returned status 503")
	synth := &fakeSynthesizer{errs: []error{synthErr, synthErr, synthErr}}
	conv := NewConverter(synth, &fakeExecutor{}, scriptedValidator(passResult()), 3)

	outcome, err := conv.Convert(context.Background(), Job{})
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, 3, outcome.Attempts)
	require.Len(t, outcome.Errors, 3)
	assert.Equal(t, PhaseSynthesis, outcome.Errors[2].Phase)
}

func TestConvertCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	synth := &fakeSynthesizer{}
	conv := NewConverter(synth, &fakeExecutor{}, scriptedValidator(passResult()), 3)

	outcome, err := conv.Convert(ctx, Job{})
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, synth.priorErrors)
}

func TestConvertRemovesStaleOutputBetweenAttempts(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.csv")

	// Attempt 1 writes a bogus artifact that fails validation; attempt 2's
	// executor writes nothing, so a leftover file would wrongly validate.
	exec := &fakeExecutor{results: []ExecutionResult{{OK: true}, {OK: true}}}
	synth := &fakeSynthesizer{}
	validatorCalls := 0
	validator := func(path string) validation.Result {
		validatorCalls++
		if validatorCalls == 1 {
			require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))
			return validation.Result{OK: false, Reason: "no data rows"}
		}
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "stale artifact should have been removed")
		return validation.Result{OK: false, Reason: "output file missing"}
	}
	conv := NewConverter(synth, exec, validator, 2)

	outcome, err := conv.Convert(context.Background(), Job{OutputPath: outputPath})
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded)
	assert.Equal(t, 2, validatorCalls)
}

// TestConverterEndToEndWithPython wires the real executor and validator with
// a canned "generated" program, exercising the whole loop minus the model.
func TestConverterEndToEndWithPython(t *testing.T) {
	pythonBin, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available")
	}

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.jsonl")
	outputPath := filepath.Join(dir, "output.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(
		`{"response": {"name": "alice", "age": 30}}`+"\n"+
			`{"response": {"name": "bob", "age": 25}}`+"\n"), 0644))

	program := `import json, csv, sys

with open('/home/user/input.jsonl') as f, open('/home/user/output.csv', 'w', newline='') as out:
    w = csv.writer(out)
    w.writerow(['name', 'age'])
    for line in f:
        try:
            rec = json.loads(line)['response']
            w.writerow([rec.get('name', ''), rec.get('age', '')])
        except Exception as e:
            print('skip: %s' % e, file=sys.stderr)
`

	synth := &fakeSynthesizer{programs: []string{program}}
	conv := NewConverter(synth, NewPythonExecutor(pythonBin, 0), validation.ValidateCSV, 3)

	outcome, err := conv.Convert(context.Background(), Job{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Sample:     `{"response": {"name": "alice", "age": 30}}`,
	})
	require.NoError(t, err)

	require.True(t, outcome.Succeeded, fmt.Sprintf("errors: %v", outcome.Errors))
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, []string{"name", "age"}, outcome.Validation.Columns)
	assert.Equal(t, 2, outcome.Validation.RowCount)
}
