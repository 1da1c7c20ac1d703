// internal/refpath/parser.go

package refpath

import (
	"fmt"
	"regexp"
	"strconv"
)

// componentRegex matches a single non-dot component: a decimal index
// without leading zeros, or an identifier with an optional entry sigil.
var componentRegex = regexp.MustCompile(`^(0|[1-9]\d*|\*?[_a-zA-Z]\w*)$`)

// Parse converts a reference string into its structured form.
//
// Components are separated by single dots. A run of n>1 dots ascends n-1
// ancestor levels and needs no extra separator on either side, so
// "var2.2..0" steps to var2, index 2, up one level, index 0. Runs at the
// start or end of the string follow the same rule: ".." alone is the
// parent, "..x" ascends once before descending to x. The empty string is
// the node itself.
func Parse(raw string) (*Path, error) {
	p := &Path{}
	for i := 0; i < len(raw); {
		if raw[i] == '.' {
			j := i
			for j < len(raw) && raw[j] == '.' {
				j++
			}
			if levels := j - i - 1; levels > 0 {
				p.Steps = append(p.Steps, AscendStep(levels))
			}
			i = j
			continue
		}

		j := i
		for j < len(raw) && raw[j] != '.' {
			j++
		}
		component := raw[i:j]
		if !componentRegex.MatchString(component) {
			return nil, fmt.Errorf("invalid reference component %q in %q", component, raw)
		}

		switch {
		case component[0] >= '0' && component[0] <= '9':
			index, err := strconv.Atoi(component)
			if err != nil {
				// Unreachable: the regex admits ints only.
				return nil, fmt.Errorf("internal error parsing index: %w", err)
			}
			p.Steps = append(p.Steps, IndexStep(index))
		case component[0] == '*':
			p.Steps = append(p.Steps, EntryStep(component[1:]))
		default:
			p.Steps = append(p.Steps, NameStep(component))
		}
		i = j
	}

	return p, nil
}

// MustParse is Parse for reference strings known valid at compile time.
// It panics on error.
func MustParse(raw string) *Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
