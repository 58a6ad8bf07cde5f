package extractbuild

import (
	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/contractorbuild"
	"github.com/zummach/osrm/internal/geo"
	"github.com/zummach/osrm/internal/graph"
)

type segNode struct {
	id       int64
	lat, lon float64
}

// builder assembles the V-node graph from a parsedOSM one way at a time,
// grounded in the teacher's processWay/processSegment/processSegment2/
// addEdge chain (osm_parser2.go).
type builder struct {
	p *parsedOSM

	nodeIDMap map[int64]int32
	nodes     []graph.Node
	external  []artifact.ExternalMemoryNode

	edges []contractorbuild.Edge

	geometry    *graph.GeometryTable
	names       *graph.NameTable
	nameIDCache map[[2]string]int32
}

func buildGraph(p *parsedOSM) (*Result, error) {
	b := &builder{
		p:           p,
		nodeIDMap:   make(map[int64]int32),
		geometry:    graph.NewGeometryTable(),
		names:       graph.NewNameTable(),
		nameIDCache: make(map[[2]string]int32),
	}

	for i := range p.ways {
		b.processWay(&p.ways[i])
	}

	return &Result{
		Nodes:         b.nodes,
		ExternalNodes: b.external,
		Edges:         b.edges,
		Geometry:      b.geometry,
		Names:         b.names,
		Restrictions:  b.resolveRestrictions(),
	}, nil
}

// processWay splits a way into intersection-to-intersection segments: a
// segment only ever breaks at a roleJunction node, so an internal
// between-node or an unshared end-node is folded into whichever segment
// crosses it, and a way with no internal junctions becomes one segment
// spanning its whole length.
func (b *builder) processWay(w *wayInfo) {
	var segment []segNode
	for _, id := range w.nodes {
		c, ok := b.p.nodeCoord[id]
		if !ok {
			continue // referenced node never resolved to a coordinate
		}
		n := segNode{id: id, lat: c.lat, lon: c.lon}
		if b.p.nodeRole[id] == roleJunction && len(segment) > 0 {
			segment = append(segment, n)
			b.processSegment(segment, w)
			segment = nil
		}
		segment = append(segment, n)
	}
	if len(segment) > 1 {
		b.processSegment(segment, w)
	}
}

// processSegment handles the loop case: a single-way roundabout or closed
// loop whose first and last node coincide is split at its second-to-last
// node, into the run up to that node and the final hop, so neither part is
// a zero-length self-edge.
func (b *builder) processSegment(segment []segNode, w *wayInfo) {
	if len(segment) == 2 && segment[0].id == segment[1].id {
		return
	}
	if segment[0].id == segment[len(segment)-1].id {
		b.processSegment2(segment[:len(segment)-1], w)
		b.processSegment2(segment[len(segment)-2:], w)
		return
	}
	b.processSegment2(segment, w)
}

// processSegment2 further splits a segment at any barrier node (gates,
// bollards, fords); a barrier only forces a split the first time it's
// encountered, mirroring the teacher's one-shot consumption of
// barrierNodes.
func (b *builder) processSegment2(segment []segNode, w *wayInfo) {
	var sub []segNode
	for _, n := range segment {
		if b.p.barrierNode[n.id] {
			b.p.barrierNode[n.id] = false
			if len(sub) != 0 {
				sub = append(sub, n)
				b.addEdge(sub, w)
				sub = nil
			}
		}
		sub = append(sub, n)
	}
	if len(sub) > 1 {
		b.addEdge(sub, w)
	}
}

func (b *builder) nodeID(n segNode) int32 {
	if id, ok := b.nodeIDMap[n.id]; ok {
		return id
	}
	id := int32(len(b.nodes))
	b.nodeIDMap[n.id] = id
	b.nodes = append(b.nodes, graph.Node{ID: id, Lat: n.lat, Lon: n.lon})
	b.external = append(b.external, artifact.ExternalMemoryNode{
		Lon:          artifact.ToMicroDegrees(n.lon),
		Lat:          artifact.ToMicroDegrees(n.lat),
		OSMID:        uint64(n.id),
		Barrier:      b.p.barrierNode[n.id],
		TrafficLight: b.p.trafficLight[n.id],
	})
	return id
}

func (b *builder) nameID(name, ref string) int32 {
	key := [2]string{name, ref}
	if id, ok := b.nameIDCache[key]; ok {
		return id
	}
	id := int32(b.names.Append(name, "", "", ref))
	b.nameIDCache[key] = id
	return id
}

// appendGeometry registers the via-points strictly between segment's two
// endpoints, in the given traversal order, weighting each hop by its
// share of etaSeconds proportional to distance. ViaNode is left at -1:
// these points sit outside the V-node id space (they're never split
// points), so there's no meaningful node id to report, the same
// convention shortcut edges use for GeometryID/NameID.
func (b *builder) appendGeometry(segment []segNode, etaSecondsPerMeter float64) int32 {
	if len(segment) <= 2 {
		return b.geometry.Append(nil)
	}
	pts := make([]graph.GeometryPoint, 0, len(segment)-2)
	for i := 1; i < len(segment)-1; i++ {
		d := geo.HaversineMeters(segment[i-1].lat, segment[i-1].lon, segment[i].lat, segment[i].lon)
		pts = append(pts, graph.GeometryPoint{
			ViaNode: -1,
			Weight:  d * etaSecondsPerMeter * 10, // deci-seconds, matching Edge.Weight's unit
			Coord:   graph.NewCoordinate(segment[i].lat, segment[i].lon),
		})
	}
	return b.geometry.Append(pts)
}

func reversedSegment(segment []segNode) []segNode {
	out := make([]segNode, len(segment))
	for i, n := range segment {
		out[len(segment)-1-i] = n
	}
	return out
}

func (b *builder) addEdge(segment []segNode, w *wayInfo) {
	from := b.nodeID(segment[0])
	to := b.nodeID(segment[len(segment)-1])

	distMeters := 0.0
	for i := 1; i < len(segment); i++ {
		distMeters += geo.HaversineMeters(segment[i-1].lat, segment[i-1].lon, segment[i].lat, segment[i].lon)
	}

	speedKMH := w.maxspeedKMH
	if speedKMH <= 0 {
		speedKMH = defaultRoadSpeedKMH
	}
	speedMetersPerSec := speedKMH * 1000.0 / 3600.0
	etaSecondsPerMeter := 1.0 / speedMetersPerSec

	weight := distMeters * etaSecondsPerMeter * 10 // deci-seconds
	if weight < 1 {
		weight = 1
	}

	nameID := b.nameID(w.name, w.ref)

	flags := graph.FlagForward
	if !w.oneWay {
		flags |= graph.FlagBackward
	}
	if w.roundabout {
		flags |= graph.FlagRoundabout
	}

	fwdGeom := b.appendGeometry(segment, etaSecondsPerMeter)

	if w.oneWay && !w.forward {
		b.edges = append(b.edges, contractorbuild.Edge{
			From: to, To: from, Weight: weight, Dist: distMeters,
			GeometryID: b.appendGeometry(reversedSegment(segment), etaSecondsPerMeter),
			NameID:     nameID, Flags: flags,
		})
		return
	}

	b.edges = append(b.edges, contractorbuild.Edge{
		From: from, To: to, Weight: weight, Dist: distMeters,
		GeometryID: fwdGeom, NameID: nameID, Flags: flags,
	})
	if !w.oneWay {
		b.edges = append(b.edges, contractorbuild.Edge{
			From: to, To: from, Weight: weight, Dist: distMeters,
			GeometryID: b.appendGeometry(reversedSegment(segment), etaSecondsPerMeter),
			NameID:     nameID, Flags: flags,
		})
	}
}

// resolveRestrictions turns each raw from-way/via-node/to-way relation
// into a from-node/via-node/to-node TurnRestriction by picking, on each
// of the from/to ways, whichever node sits immediately adjacent to the
// via node in that way's node list — the node a vehicle would actually be
// at just before or after passing through the junction. A restriction is
// only kept when the via node and both adjacent nodes already ended up as
// V-nodes (true of any junction that borders a real segment split); a
// restriction whose adjacent node is a plain via-point that was folded
// into the middle of some other segment is dropped, since there's no
// V-node to anchor it to.
func (b *builder) resolveRestrictions() []artifact.TurnRestriction {
	if len(b.p.restrictions) == 0 {
		return nil
	}
	waysByID := make(map[int64]*wayInfo, len(b.p.ways))
	for i := range b.p.ways {
		waysByID[b.p.ways[i].id] = &b.p.ways[i]
	}

	var out []artifact.TurnRestriction
	for _, r := range b.p.restrictions {
		viaID, ok := b.nodeIDMap[r.viaNode]
		if !ok {
			continue
		}
		fromNode, fromOK := b.adjacentEndpoint(waysByID[r.fromWay], r.viaNode)
		toNode, toOK := b.adjacentEndpoint(waysByID[r.toWay], r.viaNode)
		if !fromOK || !toOK {
			continue
		}
		out = append(out, artifact.TurnRestriction{From: fromNode, Via: viaID, To: toNode, Only: r.only})
	}
	return out
}

func (b *builder) adjacentEndpoint(w *wayInfo, viaNode int64) (int32, bool) {
	if w == nil {
		return 0, false
	}
	for i, id := range w.nodes {
		if id != viaNode {
			continue
		}
		var neighbor int64
		switch {
		case i > 0:
			neighbor = w.nodes[i-1]
		case i+1 < len(w.nodes):
			neighbor = w.nodes[i+1]
		default:
			return 0, false
		}
		nodeID, ok := b.nodeIDMap[neighbor]
		return nodeID, ok
	}
	return 0, false
}
