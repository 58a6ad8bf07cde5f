package extractbuild

import (
	"github.com/dhconnelly/rtreego"

	"github.com/zummach/osrm/internal/geo"
)

// mergeDistanceMeters is how close two distinct OSM node ids have to be
// before they're treated as the same physical junction. Real-world OSM
// data occasionally digitizes the same junction as two or three nodes a
// few centimeters apart across separately edited ways; left alone, each
// becomes its own V-node and the ways never actually connect.
const mergeDistanceMeters = 0.5

// boxHalfWidthDeg approximates mergeDistanceMeters in degrees for the
// rtreego query box; geo.HaversineMeters re-checks every candidate pair
// before merging, so this only needs to be an over-estimate, not exact.
const boxHalfWidthDeg = 0.00001

type nodeSpatial struct {
	id       int64
	lat, lon float64
}

func (n *nodeSpatial) Bounds() rtreego.Rect {
	r, err := rtreego.NewRect(rtreego.Point{n.lon, n.lat}, []float64{1e-7, 1e-7})
	if err != nil {
		// degenerate point rect only fails on a zero/negative width, which
		// never happens with the constant above.
		panic(err)
	}
	return r
}

type nodeUnionFind struct {
	parent map[int64]int64
}

func newNodeUnionFind() *nodeUnionFind { return &nodeUnionFind{parent: make(map[int64]int64)} }

func (u *nodeUnionFind) find(id int64) int64 {
	p, ok := u.parent[id]
	if !ok {
		u.parent[id] = id
		return id
	}
	if p == id {
		return id
	}
	root := u.find(p)
	u.parent[id] = root
	return root
}

func (u *nodeUnionFind) union(a, b int64) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// dedupNearbyNodes builds a temporary rtreego index over every accepted
// way-node's coordinate, unions any pair within mergeDistanceMeters of
// each other, then rewrites every way's node list (and the via-node of
// every restriction relation) to use one canonical id per merged cluster.
func dedupNearbyNodes(p *parsedOSM) {
	if len(p.nodeCoord) == 0 {
		return
	}

	tree := rtreego.NewTree(2, 25, 50)
	for id, c := range p.nodeCoord {
		tree.Insert(&nodeSpatial{id: id, lat: c.lat, lon: c.lon})
	}

	uf := newNodeUnionFind()
	for id, c := range p.nodeCoord {
		box, err := rtreego.NewRect(
			rtreego.Point{c.lon - boxHalfWidthDeg, c.lat - boxHalfWidthDeg},
			[]float64{2 * boxHalfWidthDeg, 2 * boxHalfWidthDeg},
		)
		if err != nil {
			continue
		}
		for _, hit := range tree.SearchIntersect(box) {
			other := hit.(*nodeSpatial)
			if other.id == id {
				continue
			}
			if geo.HaversineMeters(c.lat, c.lon, other.lat, other.lon) <= mergeDistanceMeters {
				uf.union(id, other.id)
			}
		}
	}

	canonical := func(id int64) int64 { return uf.find(id) }

	mergedRole := make(map[int64]nodeRole)
	mergedCoord := make(map[int64]nodeCoord)
	mergedBarrier := make(map[int64]bool)
	mergedTrafficLight := make(map[int64]bool)
	for id, role := range p.nodeRole {
		c := canonical(id)
		if role > mergedRole[c] {
			mergedRole[c] = role
		}
		mergedCoord[c] = p.nodeCoord[id]
		if p.barrierNode[id] {
			mergedBarrier[c] = true
		}
		if p.trafficLight[id] {
			mergedTrafficLight[c] = true
		}
	}
	p.nodeRole = mergedRole
	p.nodeCoord = mergedCoord
	p.barrierNode = mergedBarrier
	p.trafficLight = mergedTrafficLight

	for wi := range p.ways {
		for i, id := range p.ways[wi].nodes {
			p.ways[wi].nodes[i] = canonical(id)
		}
	}
	for i := range p.restrictions {
		p.restrictions[i].viaNode = canonical(p.restrictions[i].viaNode)
	}
}
