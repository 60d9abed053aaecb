package engine

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/roach88/arbor/internal/fiber"
)

// Dump renders the committed tree with its state slots and debug values.
// It returns "" before the first commit.
func (e *Engine) Dump() string {
	return DumpTree(e.arena, e.current)
}

// DumpTree renders the tree under root.
func DumpTree(a *fiber.Arena, root fiber.NodeID) string {
	n := a.Get(root)
	if n == nil {
		return ""
	}
	t := treeprint.NewWithRoot(nodeLabel(root, n))
	for _, c := range a.Children(root) {
		dumpNode(t, a, c)
	}
	return t.String()
}

func dumpNode(t treeprint.Tree, a *fiber.Arena, id fiber.NodeID) {
	n := a.Get(id)
	children := a.Children(id)
	slots := slotLabels(n.Slots)
	if len(children) == 0 && len(slots) == 0 {
		t.AddNode(nodeLabel(id, n))
		return
	}
	b := t.AddBranch(nodeLabel(id, n))
	for _, s := range slots {
		b.AddMetaNode("slot", s)
	}
	for _, c := range children {
		dumpNode(b, a, c)
	}
}

func nodeLabel(id fiber.NodeID, n *fiber.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)", n.Name(), id)
	if n.Type.IsText() {
		fmt.Fprintf(&sb, " %q", n.Props.String(fiber.ValueAttr))
	} else {
		for _, a := range n.Props.Attrs {
			fmt.Fprintf(&sb, " %s=%v", a.Name, a.Value)
		}
	}
	if n.Handle != nil {
		fmt.Fprintf(&sb, " handle=%v", n.Handle)
	}
	if len(n.DebugValues) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(n.DebugValues, ", "))
	}
	return sb.String()
}

func slotLabels(s *fiber.SlotStore) []string {
	var out []string
	for i := 0; i < s.Len(); i++ {
		switch v := s.At(i).(type) {
		case *fiber.StateSlot:
			out = append(out, fmt.Sprintf("%d state=%v", i, v.Value))
		case *fiber.ReducerSlot:
			out = append(out, fmt.Sprintf("%d reducer=%v", i, v.Value))
		case *fiber.RefSlot:
			out = append(out, fmt.Sprintf("%d ref", i))
		case *fiber.MemoSlot:
			out = append(out, fmt.Sprintf("%d memo=%v", i, v.Value))
		case *fiber.CallbackSlot:
			out = append(out, fmt.Sprintf("%d callback", i))
		case *fiber.EffectSlot:
			kind := "effect"
			if v.IsLayoutEffect {
				kind = "layout effect"
			}
			out = append(out, fmt.Sprintf("%d %s run=%t deps=%d", i, kind, v.HasRun, len(v.Deps)))
		}
	}
	return out
}
