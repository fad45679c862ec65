// Package module provides the static hardware-module hierarchy.
//
// A [Tree] is built once per load from the set of observed directory paths
// and the connections declared under each of them. Every module is keyed by
// its slash-delimited path, which is the sole key for all view state
// (expansion, layout boxes, routed edges).
//
// # Building
//
//	tree, err := module.New(
//	    []string{"Rover/MainBoard/Power", "Rover/Drive"},
//	    map[string][]module.Connection{
//	        "Rover/Drive": {{Target: "Rover/MainBoard/Power", Interface: "VBAT"}},
//	    },
//	)
//
// Missing intermediate paths ("Rover", "Rover/MainBoard") are created, and
// children are ordered by name so traversals are deterministic.
//
// # Traversal
//
// All walks ([Tree.Walk], [Tree.Descendants], [Tree.WalkBelow],
// [Tree.Ancestors]) are iterative and guarded against revisiting a path, so
// deep hierarchies cannot exhaust the stack.
//
// # Validation
//
// [Tree.Validate] is the precondition check for trees that did not come from
// [New]. The view core assumes it has passed.
package module
