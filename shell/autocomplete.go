package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/tinue/tak"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new":    {Args: []string{"3", "4", "5", "6", "7", "8"}},
	"ptn":    {Options: []string{"-size"}},
	"server": {Options: []string{"-size", "-undo"}},
	"moves":  {Options: []string{"-n"}},
	"tinue": {
		Options: []string{"-depth", "-mode", "-format", "-skip-walls", "-ttable"},
	},
	"help": {Args: []string{"tinue", "server", "ptn"}},
}

var commandNames = []string{
	"help", "new", "ptn", "server", "show", "play", "undo", "moves",
	"eval", "tinue", "pv", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface. After "play" it offers
// the legal moves of the current position.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "mode":
				completions = []string{"first", "multi", "unique"}
			case "format":
				completions = []string{"json", "yaml"}
			case "skip-walls", "ttable":
				completions = boolValues
			case "size":
				completions = commandMetadata["new"].Args
			}
		}

		if completions == nil && (cmdName == "play" || cmdName == "p") && c.sc.pos != nil {
			size := c.sc.pos.Size()
			completions = lo.Map(c.sc.pos.GenerateMoves(), func(m tak.Move, _ int) string {
				return m.PTN(size)
			})
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
