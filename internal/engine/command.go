package engine

import "strings"

// Command is a single concrete backend invocation: a program and its arguments.
type Command struct {
	Path string
	Args []string
}

// Line renders the command as the exact text shown to the operator. Dry-run
// output and real execution share this rendering, so what a dry run prints is
// byte-identical to what a real run would attempt.
func (c Command) Line() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Path)
	for _, a := range c.Args {
		if strings.ContainsAny(a, " \t\"") {
			a = "'" + a + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of one command in a batch.
type Result struct {
	// Command is the rendered command line that was (or would be) executed.
	Command string
	// OK reports whether the command succeeded. Skipped commands are OK.
	OK bool
	// Skipped is set when the command was not issued because an identical
	// rule already exists on the backend.
	Skipped bool
	// Message carries backend output or an error description.
	Message string
}

// AllOK reports whether every result in the batch succeeded.
func AllOK(results []Result) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}
