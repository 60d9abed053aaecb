package ir

// Host mutation operations.
const (
	OpCreate = "create"
	OpSet    = "set"
	OpClear  = "clear"
	OpAttach = "attach"
	OpDetach = "detach"
	OpInsert = "insert"
)

// Mutation is one primitive applied to a host tree.
// Seq is the generation of the commit that applied it, or 0 outside a
// commit.
type Mutation struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Node   int64  `json:"node"`
	Parent int64  `json:"parent,omitempty"`
	Before int64  `json:"before,omitempty"`
	Type   string `json:"type,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}

// CanonicalMap converts m to the map form accepted by MarshalCanonical.
// Zero fields are omitted.
func (m Mutation) CanonicalMap() map[string]any {
	out := map[string]any{
		"seq":  m.Seq,
		"op":   m.Op,
		"node": m.Node,
	}
	if m.Parent != 0 {
		out["parent"] = m.Parent
	}
	if m.Before != 0 {
		out["before"] = m.Before
	}
	if m.Type != "" {
		out["type"] = m.Type
	}
	if m.Name != "" {
		out["name"] = m.Name
	}
	if m.Value != "" {
		out["value"] = m.Value
	}
	return out
}

// Change describes what a commit did to one node.
type Change struct {
	// Tag is the effect tag: "create", "update", "remove" or "move".
	Tag string `json:"tag"`
	// Type is the node type name (host tag or component name).
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
	// Depth is the node's depth below the render root.
	Depth int64 `json:"depth"`
	// Set and Cleared list attribute names written or removed.
	Set     []string `json:"set,omitempty"`
	Cleared []string `json:"cleared,omitempty"`
}

// CanonicalMap converts c to the map form accepted by MarshalCanonical.
func (c Change) CanonicalMap() map[string]any {
	out := map[string]any{
		"tag":   c.Tag,
		"type":  c.Type,
		"depth": c.Depth,
	}
	if c.Key != "" {
		out["key"] = c.Key
	}
	if len(c.Set) > 0 {
		out["set"] = stringsToAny(c.Set)
	}
	if len(c.Cleared) > 0 {
		out["cleared"] = stringsToAny(c.Cleared)
	}
	return out
}

// CommitRecord is the journal entry for one commit.
type CommitRecord struct {
	// ID is the content-addressed commit id (see CommitID).
	ID         string   `json:"id"`
	Session    string   `json:"session"`
	Generation int64    `json:"generation"`
	Units      int64    `json:"units"`
	Yields     int64    `json:"yields"`
	Layout     int64    `json:"layout_effects"`
	Passive    int64    `json:"passive_effects"`
	Changes    []Change `json:"changes"`

	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
