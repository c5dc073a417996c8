package mathexpr

import (
	"slices"

	"github.com/g5becks/mathspan/internal/symbols"
)

// UnknownCommands returns the sorted, de-duplicated command names in source
// that Parse would render as their literal name.
func UnknownCommands(source string) []string {
	src := []rune(source)
	seen := make(map[string]bool)

	for i := 0; i < len(src); i++ {
		if src[i] != '\\' || i+1 >= len(src) {
			continue
		}
		if !isLetter(src[i+1]) {
			// Escaped character; skip it so "\\alpha" is not read as a command.
			i++
			continue
		}

		start := i + 1
		end := start
		for end < len(src) && isLetter(src[end]) {
			end++
		}
		name := string(src[start:end])
		i = end - 1

		if isSpecialForm(name) {
			continue
		}
		if _, ok := symbols.Command(name); !ok {
			seen[name] = true
		}
	}

	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
