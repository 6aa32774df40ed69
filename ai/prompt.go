package ai

import (
	"regexp"
	"strings"
)

// The generated program must use these exact paths; the executor substitutes
// the real temp paths before running it. The prompt states this contract.
const (
	ContractInputPath  = "/home/user/input.jsonl"
	ContractOutputPath = "/home/user/output.csv"
)

// BuildParserPrompt constructs the code-generation prompt from the JSONL
// sample, the optional user instruction and, on retries, the previous
// attempt's error text.
func BuildParserPrompt(sample, instruction, priorError string) string {
	var b strings.Builder
	b.WriteString("i am having a jsonl file its sample line is \n\n")
	b.WriteString(sample)
	b.WriteString("\n\n")
	b.WriteString("Generate Python code that: \n")
	b.WriteString("1. Reads from '" + ContractInputPath + "' (pre-provided, do not modify) \n")
	b.WriteString("2. Writes to '" + ContractOutputPath + "' with columns: as per the response json. \n")
	b.WriteString("3. For each JSONL line:\n")
	b.WriteString("   - Extracts JSON string from 'response['candidates'][0]['content']['parts'][0]['text']'\n")
	b.WriteString("   - Parses this inner JSON to map fields to CSV columns\n")
	b.WriteString("   - Ignores 'request' field \n")
	b.WriteString("4. Maps inner JSON fields as in the sample \n")
	b.WriteString("5. Fills missing fields with '' \n")
	b.WriteString("6. Handles invalid JSON lines with try-except, logging errors to stderr \n")
	b.WriteString("7. Uses only 'json', 'csv', 'sys' modules\n")
	b.WriteString("8. Output ONLY the Python code (no explanations, no Markdown)\n")
	b.WriteString("9. Before giving the output run the code once yourself and if the request and the output match then only give the code\n")
	b.WriteString("10. After that before giving the code check that the generated code will have at least parsed 2 lines, if not, then give the code that can\n")
	b.WriteString("11. This type of parsing often gives this error \"Error parsing inner JSON: Expecting value: line 1 column 1 (char 0)\" so please explicitly run the code that you give and output the output also so that it can be checked\n")
	b.WriteString("12. Never return incorrect code\n")
	b.WriteString("13. Ensure proper try-except block structure to avoid syntax errors")

	if instruction != "" {
		b.WriteString("\n14. ")
		b.WriteString(instruction)
	}

	if priorError != "" {
		b.WriteString("\n\nPrevious attempt failed with this error: ")
		b.WriteString(priorError)
		b.WriteString("\nPlease modify the code to address this issue.")
	}

	return b.String()
}

var pythonFenceRe = regexp.MustCompile("(?s)```python\\s+(.*?)\\s+```")

// ExtractPythonCode pulls the program body out of a model response. It tries
// a ```python fenced block first, then strips bare fences line by line, and
// finally falls back to the full response text.
func ExtractPythonCode(response string) string {
	if m := pythonFenceRe.FindStringSubmatch(response); m != nil {
		return m[1]
	}

	lines := strings.Split(response, "\n")
	var codeLines []string
	inCode := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "```python" || trimmed == "```" {
			inCode = !inCode
			continue
		}
		if inCode || !strings.Contains(line, "```") {
			codeLines = append(codeLines, line)
		}
	}

	if len(codeLines) > 0 {
		return strings.Join(codeLines, "\n")
	}
	return response
}
