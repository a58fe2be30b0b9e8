package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"solfront/internal/source"
)

// NodeID numbers the files of one batch in path order.
type NodeID uint32

// Import is one edge request: the importing file asks for Path at Span.
type Import struct {
	Path string
	Span source.Span
}

// Node is a file together with the imports it declares.
type Node struct {
	Path    string
	Imports []Import
}

type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex collects every path named by nodes or their imports, sorts them
// and hands out IDs in that order.
func BuildIndex(nodes []Node) Index {
	uniq := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Path != "" {
			uniq[n.Path] = struct{}{}
		}
		for _, imp := range n.Imports {
			if imp.Path != "" {
				uniq[imp.Path] = struct{}{}
			}
		}
	}
	paths := make([]string, 0, len(uniq))
	for p := range uniq {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	nameToID := make(map[string]NodeID, len(paths))
	for i, p := range paths {
		id, err := safecast.Conv[NodeID](i)
		if err != nil {
			panic(fmt.Errorf("node id overflow: %w", err))
		}
		nameToID[p] = id
	}
	return Index{NameToID: nameToID, IDToName: paths}
}
