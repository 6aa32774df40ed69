package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildParserPromptContainsContract(t *testing.T) {
	sample := `{"response": {"candidates": []}}`
	prompt := BuildParserPrompt(sample, "", "")

	assert.Contains(t, prompt, sample)
	assert.Contains(t, prompt, ContractInputPath)
	assert.Contains(t, prompt, ContractOutputPath)
	assert.NotContains(t, prompt, "Previous attempt failed")
	assert.NotContains(t, prompt, "\n14. ")
}

func TestBuildParserPromptAppendsInstruction(t *testing.T) {
	prompt := BuildParserPrompt("{}", "use semicolons as delimiters", "")
	assert.Contains(t, prompt, "14. use semicolons as delimiters")
}

func TestBuildParserPromptAppendsPriorError(t *testing.T) {
	prompt := BuildParserPrompt("{}", "", "KeyError: 'candidates'")
	assert.Contains(t, prompt, "Previous attempt failed with this error: KeyError: 'candidates'")
	assert.Contains(t, prompt, "Please modify the code to address this issue.")
	// Error feedback comes after the task rules.
	assert.Greater(t, strings.Index(prompt, "Previous attempt failed"), strings.Index(prompt, "13."))
}

func TestExtractPythonCodeFencedBlock(t *testing.T) {
	response := "Here is the code:\n```python\nimport json\nprint('ok')\n```\nHope this helps!"
	code := ExtractPythonCode(response)
	assert.Equal(t, "import json\nprint('ok')", code)
}

func TestExtractPythonCodeBareFences(t *testing.T) {
	response := "```\nimport csv\n```"
	code := ExtractPythonCode(response)
	assert.Equal(t, "import csv", strings.TrimSpace(code))
}

func TestExtractPythonCodeNoFences(t *testing.T) {
	response := "import json\nimport csv"
	assert.Equal(t, response, ExtractPythonCode(response))
}

func TestExtractPythonCodeFirstFenceWins(t *testing.T) {
	response := "```python\nfirst = 1\n```\ntext\n```python\nsecond = 2\n```"
	assert.Equal(t, "first = 1", ExtractPythonCode(response))
}
