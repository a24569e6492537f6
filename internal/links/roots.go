package links

import "github.com/mesh-intelligence/faktor/pkg/types"

// FindRoots returns the components of cmpts that no other component in
// cmpts links to, in input order. Self links are ignored and links to
// components outside cmpts are not followed. Components only reachable
// through a cycle are represented by one root per cycle: the first
// unreached component in input order, unless a root picked later reaches
// it.
func FindRoots(cmpts []*types.ProductCmpt) []*types.ProductCmpt {
	byName := make(map[string]*types.ProductCmpt, len(cmpts))
	for _, pc := range cmpts {
		byName[pc.QualifiedName] = pc
	}
	edges := make(map[string][]string, len(cmpts))
	inDegree := make(map[string]int, len(cmpts))
	for _, pc := range cmpts {
		seen := make(map[string]bool)
		for _, l := range pc.AllLinks() {
			if l.Target == pc.QualifiedName || byName[l.Target] == nil || seen[l.Target] {
				continue
			}
			seen[l.Target] = true
			edges[pc.QualifiedName] = append(edges[pc.QualifiedName], l.Target)
			inDegree[l.Target]++
		}
	}

	reached := make(map[string]bool, len(cmpts))
	owner := make(map[string]string) // node -> cycle root that reached it
	alias := make(map[string]string) // absorbed cycle root -> absorbing root
	resolve := func(r string) string {
		for alias[r] != "" {
			r = alias[r]
		}
		return r
	}
	var absorbed map[string]bool
	var mark func(name, root string)
	mark = func(name, root string) {
		if reached[name] {
			if o := owner[name]; o != "" && root != "" {
				if r := resolve(o); r != root {
					absorbed[r] = true
				}
			}
			return
		}
		reached[name] = true
		if root != "" {
			owner[name] = root
		}
		for _, next := range edges[name] {
			mark(next, root)
		}
	}

	var roots []*types.ProductCmpt
	for _, pc := range cmpts {
		if inDegree[pc.QualifiedName] == 0 {
			roots = append(roots, pc)
			mark(pc.QualifiedName, "")
		}
	}

	// Remaining components sit on cycles without an entry point.
	for _, pc := range cmpts {
		if reached[pc.QualifiedName] {
			continue
		}
		absorbed = make(map[string]bool)
		mark(pc.QualifiedName, pc.QualifiedName)
		if len(absorbed) > 0 {
			kept := roots[:0]
			for _, r := range roots {
				if !absorbed[r.QualifiedName] {
					kept = append(kept, r)
				}
			}
			roots = kept
			for name := range absorbed {
				alias[name] = pc.QualifiedName
			}
		}
		roots = append(roots, pc)
	}
	return roots
}
