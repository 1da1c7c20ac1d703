// internal/refpath/path.go

package refpath

import (
	"reflect"
	"strconv"
	"strings"
)

// String serializes the Path back into its canonical reference string.
func (p *Path) String() string {
	if p == nil {
		return ""
	}

	var sb strings.Builder
	for i, step := range p.Steps {
		switch step.Kind {
		case StepAscend:
			// The run doubles as the separator on both sides.
			sb.WriteString(strings.Repeat(".", step.Levels+1))
		default:
			if i > 0 && p.Steps[i-1].Kind != StepAscend {
				sb.WriteByte('.')
			}
			if step.Kind == StepIndex {
				sb.WriteString(strconv.Itoa(step.Index))
			} else {
				if step.Entry {
					sb.WriteByte('*')
				}
				sb.WriteString(step.Name)
			}
		}
	}

	return sb.String()
}

// Equal checks for deep equality between two Path pointers.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return reflect.DeepEqual(p.Steps, other.Steps)
}

// Absolute reports whether the path contains descent steps only and can
// therefore anchor at a tree root. Override targets must be absolute.
func (p *Path) Absolute() bool {
	for _, step := range p.Steps {
		if step.Kind == StepAscend {
			return false
		}
	}
	return true
}

// Join concatenates two paths. Ascend steps that become adjacent at the
// seam are merged, since climbing n levels and then m levels is one climb
// of n+m.
func (p *Path) Join(other *Path) *Path {
	out := &Path{Steps: make([]Step, 0, len(p.Steps)+len(other.Steps))}
	for _, step := range p.Steps {
		out.push(step)
	}
	for _, step := range other.Steps {
		out.push(step)
	}
	return out
}

// Child returns a copy of the path extended by one descent step.
func (p *Path) Child(step Step) *Path {
	out := &Path{Steps: make([]Step, 0, len(p.Steps)+1)}
	out.Steps = append(out.Steps, p.Steps...)
	out.push(step)
	return out
}

func (p *Path) push(step Step) {
	if step.Kind == StepAscend {
		if step.Levels == 0 {
			return
		}
		if n := len(p.Steps); n > 0 && p.Steps[n-1].Kind == StepAscend {
			p.Steps[n-1].Levels += step.Levels
			return
		}
	}
	p.Steps = append(p.Steps, step)
}
