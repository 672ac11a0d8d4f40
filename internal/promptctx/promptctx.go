package promptctx

import "strings"

// Kind labels what a context entry describes.
type Kind string

const (
	KindFunction Kind = "Function"
	KindConstant Kind = "Constant"
)

// Accumulator collects ordered descriptions of previously generated artifacts
// for inclusion in later prompts. Entries are deduplicated by exact string
// match and never truncated: the prefix grows until Clear is called.
type Accumulator struct {
	entries []string
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{}
}

// Add appends an entry of the form "<Kind>: <name> - <description>". Adding
// an entry that already exists verbatim is a no-op.
func (a *Accumulator) Add(kind Kind, name, description string) {
	entry := string(kind) + ": " + name + " - " + description
	for _, e := range a.entries {
		if e == entry {
			return
		}
	}
	a.entries = append(a.entries, entry)
}

// Entries returns a copy of the accumulated entries in insertion order.
func (a *Accumulator) Entries() []string {
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// Clear discards all entries. Clearing an empty accumulator is a no-op.
func (a *Accumulator) Clear() {
	a.entries = a.entries[:0]
}

// Prefix renders the accumulated context as a prompt prefix block, or ""
// when no entries exist.
func (a *Accumulator) Prefix() string {
	if len(a.entries) == 0 {
		return ""
	}
	return "Previously generated context:\n" + strings.Join(a.entries, "\n") + "\n\n"
}
