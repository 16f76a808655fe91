package downloader

import (
	"strings"

	"kubegems.io/nlpdata/pkg/resource"
)

type Command struct {
	Tool    resource.Tool `json:"tool"`
	Program string        `json:"program"`
	Args    []string      `json:"args"`
}

// String renders the command as a line that can be pasted into a shell.
func (c Command) String() string {
	quoted := make([]string, 0, len(c.Args)+1)
	quoted = append(quoted, Quote(c.Program))
	for _, arg := range c.Args {
		quoted = append(quoted, Quote(arg))
	}
	return strings.Join(quoted, " ")
}

// PlannedStep is a status message and the commands run after printing it.
type PlannedStep struct {
	Tool     resource.Tool `json:"tool"`
	Message  string        `json:"message"`
	Commands []Command     `json:"commands"`
}

// BuildCommands returns the downloader invocations for a step.
// NLTK takes every resource in one call, spaCy takes one model per call.
func BuildCommands(o *Options, step resource.Step) []Command {
	names := step.Names()
	if len(names) == 0 {
		return nil
	}
	switch step.Tool {
	case resource.ToolNLTK:
		args := []string{"-m", "nltk.downloader"}
		if o.Quiet {
			args = append(args, "-q")
		}
		if o.NLTKDir != "" {
			args = append(args, "-d", o.NLTKDir)
		}
		return []Command{{Tool: step.Tool, Program: o.Python, Args: append(args, names...)}}
	case resource.ToolSpacy:
		cmds := make([]Command, 0, len(names))
		for _, name := range names {
			cmds = append(cmds, Command{Tool: step.Tool, Program: o.Python, Args: []string{"-m", "spacy", "download", name}})
		}
		return cmds
	default:
		return nil
	}
}

func Quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, "\t \n;<>\\${}()&!*'\"|") {
		s = strings.ReplaceAll(s, "'", "'\\''")
		return "'" + s + "'"
	}
	return s
}
