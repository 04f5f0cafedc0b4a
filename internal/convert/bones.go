package convert

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
)

// boneTable assigns globally unique, stable bone ids keyed by name.
// Ids are sequential from 0 in first-registration order, so they depend on
// traversal order but are identical across runs on identical input.
type boneTable struct {
	logger  *log.Logger
	entries map[string]boneEntry
	next    int
}

type boneEntry struct {
	id          int
	inverseBind mgl32.Mat4
}

func newBoneTable(logger *log.Logger) *boneTable {
	return &boneTable{logger: logger, entries: make(map[string]boneEntry)}
}

// register returns the id bound to name, creating an entry with the given
// inverse-bind transform on first sight. First registration wins; the
// transform of an existing entry is never overwritten.
func (t *boneTable) register(name string, inverseBind mgl32.Mat4) int {
	if e, ok := t.entries[name]; ok {
		return e.id
	}
	id := t.next
	t.next++
	t.entries[name] = boneEntry{id: id, inverseBind: inverseBind}
	t.logger.Debug("bone", "name", name, "id", id)
	return id
}

func (t *boneTable) find(name string) (boneEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}
