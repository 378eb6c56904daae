package shell

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/reachgen/board"
	"github.com/domino14/reachgen/config"
	"github.com/domino14/reachgen/reach"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

var commandNames = []string{
	"help", "load", "row", "show", "clear", "undo", "gen", "all", "reach",
	"place", "garbage", "random", "set", "bench", "connect", "ask", "alias",
	"exit",
}

var (
	shapeNames       = []string{"T", "I", "O", "L", "J", "S", "Z"}
	orientationNames = []string{"N", "E", "S", "W"}
	boolValues       = []string{"true", "false"}
	helpTopics       = []string{"gen", "set", "bench"}
)

func sampleNames() []string {
	names := lo.Keys(board.Samples)
	slices.Sort(names)
	return names
}

func settingValues(key string) []string {
	switch key {
	case config.ConfigBackend:
		return lo.Map(reach.Backends, func(b reach.Backend, _ int) string { return string(b) })
	case config.ConfigDropMode:
		return []string{"soft", "hard"}
	case config.ConfigKickTable:
		return []string{"srs", "none"}
	case config.ConfigMinimize:
		return boolValues
	}
	return nil
}

// argCompletions returns candidates for argument n (0-based) of cmd, given
// the arguments before it.
func argCompletions(cmd string, n int, prev []string) []string {
	switch cmd {
	case "load":
		if n == 0 {
			return sampleNames()
		}
	case "ask":
		if n > 0 && prev[0] == "reach" {
			return argCompletions("reach", n-1, prev[1:])
		}
		if n == 0 {
			return append(slices.Clone(shapeNames), "reach")
		}
		fallthrough
	case "gen":
		switch n {
		case 0:
			return shapeNames
		case 3:
			return orientationNames
		}
	case "reach":
		switch n {
		case 0:
			return shapeNames
		case 1:
			return orientationNames
		}
	case "set":
		switch n {
		case 0:
			return settings
		case 1:
			return settingValues(prev[0])
		}
	case "help":
		if n == 0 {
			return helpTopics
		}
	}
	return nil
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
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
		if c.sc != nil {
			for aliasName := range c.sc.aliases {
				completions = append(completions, aliasName)
			}
		}
	} else {
		cmdName := fields[0]
		if c.sc != nil {
			if aliasValue, isAlias := c.sc.aliases[cmdName]; isAlias {
				aliasFields, err := shellquote.Split(aliasValue)
				if err == nil && len(aliasFields) > 0 {
					cmdName = aliasFields[0]
				}
			}
		}
		args := fields[1:]
		if !endsWithSpace {
			prefix = args[len(args)-1]
			args = args[:len(args)-1]
		}
		completions = argCompletions(cmdName, len(args), args)
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(strings.ToLower(completion), strings.ToLower(prefix)) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
