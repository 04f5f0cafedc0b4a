package main

import (
	"fmt"
	"os"

	"wobj-converter/internal/wobj"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file.wobj>...\n", os.Args[0])
		os.Exit(2)
	}

	for _, arg := range os.Args[1:] {
		doc, err := wobj.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("=== %s ===\n", arg)
		fmt.Printf("Vertices: %d (%d bytes each), Indices: %d (%d bytes each)\n",
			len(doc.Vertices), doc.Format.BytesPerVertex(),
			len(doc.Indices), wobj.IndexSize(len(doc.Vertices)))
		fmt.Printf("Skinned: %v\n", doc.Format.Skinned)
		fmt.Printf("Bounds: min=(%.3f, %.3f, %.3f) max=(%.3f, %.3f, %.3f)\n",
			doc.Bounds.Min[0], doc.Bounds.Min[1], doc.Bounds.Min[2],
			doc.Bounds.Max[0], doc.Bounds.Max[1], doc.Bounds.Max[2])

		fmt.Printf("Animations: %d\n", len(doc.Animations))
		for i, a := range doc.Animations {
			keys := 0
			for _, ch := range a.Channels {
				keys += len(ch.Positions) + len(ch.Rotations) + len(ch.Scales)
			}
			fmt.Printf("  Anim[%d] %q: duration=%.3f channels=%d keys=%d\n",
				i, a.Name, a.Duration, len(a.Channels), keys)
		}

		fmt.Printf("Nodes: %d\n", len(doc.Nodes))
		for i, n := range doc.Nodes {
			bone := "-"
			if n.BoneID != wobj.NoBone {
				bone = fmt.Sprintf("%d", n.BoneID)
			}
			fmt.Printf("  Node[%d]: children=%d start=%d bone=%s\n",
				i, n.ChildCount, n.ChildStart, bone)
		}

		if doc.WriteSubsets {
			fmt.Printf("Subsets: %d\n", len(doc.Subsets))
			for i, s := range doc.Subsets {
				fmt.Printf("  Subset[%d] %q: indices [%d..%d)\n", i, s.Name, s.Start, s.End)
			}
		}
	}
}
