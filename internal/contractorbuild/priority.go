package contractorbuild

// shortcutHandler is invoked once per (u, via, w) triple that needs a
// shortcut; nil during priority calculation (countShortcut in the
// teacher), set to addOrUpdateShortcut during real contraction.
type shortcutHandler func(u, w, via int32, weight float64)

// findAndHandleShortcuts is the core witness-search-driven shortcut
// test: for every pair of a still-live incoming edge (u,v) and outgoing
// edge (v,w) of node v, it checks whether some path u->w avoiding v
// already costs no more than the direct u-v-w detour; if not, a
// shortcut is needed and handle is called. Grounded in the teacher's
// function of the same name; used both to estimate a node's contraction
// priority (handle == nil, shortcuts only counted) and to perform the
// contraction for real.
func (b *builder) findAndHandleShortcuts(v int32, maxVisited int, handle shortcutHandler) (degree, shortcutCount, origEdgeCount int) {
	var pInMax, pOutMax float64
	for _, e := range b.in[v] {
		if b.contracted[e.other] {
			continue
		}
		if e.weight > pInMax {
			pInMax = e.weight
		}
	}
	for _, e := range b.out[v] {
		if b.contracted[e.other] {
			continue
		}
		if e.weight > pOutMax {
			pOutMax = e.weight
		}
	}
	pMax := pInMax + pOutMax

	for _, inE := range b.in[v] {
		u := inE.other
		if b.contracted[u] {
			continue
		}
		degree++

		for _, outE := range b.out[v] {
			w := outE.other
			if w == u || b.contracted[w] {
				continue
			}

			accepted := inE.weight + outE.weight
			witness := b.witnessSearch(u, w, v, accepted, maxVisited, pMax)
			if witness <= accepted {
				continue // a witness path exists, no shortcut needed
			}

			shortcutCount++
			origEdgeCount += b.inOrigCount[v] + b.outOrigCount[v]
			if handle != nil {
				handle(u, w, v, accepted)
			}
		}
	}
	return degree, shortcutCount, origEdgeCount
}

// calculatePriority scores node v by OSRM/CH's standard edge-difference
// heuristic: contracting low-importance nodes first (few net new
// shortcuts, few original edges folded in) keeps shortcut blow-up down.
func (b *builder) calculatePriority(v int32) float64 {
	maxVisited := int(b.meanDegree * maxPollFactorHeuristic)
	if maxVisited < 1 {
		maxVisited = 1
	}
	_, shortcutsCount, origEdgeCount := b.findAndHandleShortcuts(v, maxVisited, nil)
	edgeDifference := shortcutsCount - b.degree[v]
	return float64(10*edgeDifference + origEdgeCount)
}

// contractNode removes v from the live graph, adding whatever shortcuts
// its removal requires, and folds its settled degree into the running
// mean used to size later witness-search budgets.
func (b *builder) contractNode(v int32) {
	maxVisited := int(b.meanDegree * maxPollFactorContraction)
	if maxVisited < 1 {
		maxVisited = 1
	}
	degree, _, _ := b.findAndHandleShortcuts(v, maxVisited, b.addOrUpdateShortcut)
	b.meanDegree = (b.meanDegree*2 + float64(degree)) / 3
}

// addOrUpdateShortcut adds a new shortcut edge (u,w) via v, or lowers an
// existing shortcut's weight if this path is cheaper.
func (b *builder) addOrUpdateShortcut(u, w, via int32, weight float64) {
	for i := range b.out[u] {
		if b.out[u][i].other == w && b.out[u][i].isShortcut && weight < b.out[u][i].weight {
			b.out[u][i].weight = weight
			b.out[u][i].shortcutMiddle = via
		}
	}
	for i := range b.in[w] {
		if b.in[w][i].other == u && b.in[w][i].isShortcut && weight < b.in[w][i].weight {
			b.in[w][i].weight = weight
			b.in[w][i].shortcutMiddle = via
		}
	}

	for _, e := range b.out[u] {
		if e.other == w && e.isShortcut {
			return
		}
	}

	b.out[u] = append(b.out[u], edgeRec{other: w, weight: weight, isShortcut: true, shortcutMiddle: via, geometryID: noGeometry, nameID: noName})
	b.in[w] = append(b.in[w], edgeRec{other: u, weight: weight, isShortcut: true, shortcutMiddle: via, geometryID: noGeometry, nameID: noName})
	b.degree[u]++
	b.degree[w]++
	b.shortcutCount++
}
