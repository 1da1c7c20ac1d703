// internal/refpath/types.go

package refpath

// StepKind discriminates the three step variants a reference string can
// produce.
type StepKind int

const (
	// StepName descends through a mapping entry to its value node. With
	// Entry set it stops at the entry itself.
	StepName StepKind = iota
	// StepIndex descends into a sequence element.
	StepIndex
	// StepAscend climbs Levels ancestors, skipping entry nodes.
	StepAscend
)

// Step is a single component of a reference path.
type Step struct {
	Kind   StepKind
	Name   string // StepName only
	Entry  bool   // StepName only: the *-sigil was present
	Index  int    // StepIndex only
	Levels int    // StepAscend only
}

// NameStep creates a step that descends to the value of a mapping entry.
func NameStep(name string) Step {
	return Step{Kind: StepName, Name: name}
}

// EntryStep creates a step that selects a mapping entry itself rather than
// its value.
func EntryStep(name string) Step {
	return Step{Kind: StepName, Name: name, Entry: true}
}

// IndexStep creates a step that descends into a sequence element.
func IndexStep(index int) Step {
	return Step{Kind: StepIndex, Index: index}
}

// AscendStep creates a step that climbs the given number of ancestor
// levels.
func AscendStep(levels int) Step {
	return Step{Kind: StepAscend, Levels: levels}
}

// Path is the structured representation of a reference string. A Path with
// no steps refers to the node it is evaluated against.
type Path struct {
	Steps []Step
}
