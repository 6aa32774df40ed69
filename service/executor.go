package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"jsonl2csv/ai"
)

// ExecutionResult captures the outcome of running one generated program.
type ExecutionResult struct {
	OK       bool
	Error    string
	Stdout   string
	Duration time.Duration
}

// PythonExecutor runs generated program text in an isolated Python
// subprocess bounded by a wall-clock timeout.
type PythonExecutor struct {
	pythonBin string
	timeout   time.Duration
}

func NewPythonExecutor(pythonBin string, timeout time.Duration) *PythonExecutor {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PythonExecutor{pythonBin: pythonBin, timeout: timeout}
}

// Execute substitutes the real input/output paths for the contract paths the
// prompt dictates, writes the program to a temp script and runs it. Faults
// are captured in the result, never propagated as a crash.
func (e *PythonExecutor) Execute(ctx context.Context, program, inputPath, outputPath string) ExecutionResult {
	code := strings.ReplaceAll(program, ai.ContractInputPath, inputPath)
	code = strings.ReplaceAll(code, ai.ContractOutputPath, outputPath)

	script, err := os.CreateTemp("", "parser-*.py")
	if err != nil {
		return ExecutionResult{Error: fmt.Sprintf("failed to create temp script: %v", err)}
	}
	scriptPath := script.Name()
	defer os.Remove(scriptPath)

	if _, err := script.WriteString(code); err != nil {
		script.Close()
		return ExecutionResult{Error: fmt.Sprintf("failed to write temp script: %v", err)}
	}
	if err := script.Close(); err != nil {
		return ExecutionResult{Error: fmt.Sprintf("failed to write temp script: %v", err)}
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(execCtx, e.pythonBin, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	if execCtx.Err() == context.DeadlineExceeded {
		log.Printf("[EXECUTOR] Script timed out after %v", e.timeout)
		return ExecutionResult{Error: "execution timed out", Stdout: stdout.String(), Duration: duration}
	}
	if ctx.Err() != nil {
		return ExecutionResult{Error: ctx.Err().Error(), Stdout: stdout.String(), Duration: duration}
	}

	if runErr != nil {
		errText := strings.TrimSpace(stderr.String())
		if errText == "" {
			errText = runErr.Error()
		}
		return ExecutionResult{Error: errText, Stdout: stdout.String(), Duration: duration}
	}

	return ExecutionResult{OK: true, Stdout: stdout.String(), Duration: duration}
}
