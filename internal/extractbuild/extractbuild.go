// Package extractbuild implements the offline way-extraction step behind
// the `extract` CLI: it reads a raw OpenStreetMap PBF file and produces the
// directed edge list, node table, geometry and name tables that
// contractorbuild and artifact.Write* turn into a queryable snapshot.
//
// Grounded in the teacher's pkg/osmparser/osm_parser2.go: the two-pass
// scan (once to classify every way-node as an endpoint, an in-between
// point or a true intersection, once more to walk node and relation data in
// file order) and the intersection-to-intersection segment splitting
// (processWay/processSegment/addEdge) are carried over. One addition not
// present in the teacher: dedupNearbyNodes uses a temporary rtreego index
// to merge OSM nodes that sit within a few centimeters of each other — a
// common artifact of multiply-digitized junctions — before edges are
// built, so two close-but-distinct OSM node ids don't become two
// unconnected V-nodes at the same junction.
package extractbuild

import (
	"fmt"

	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/contractorbuild"
	"github.com/zummach/osrm/internal/graph"
)

// Result is everything contractorbuild.Build and the artifact writers need
// to turn one OSM extract into a snapshot.
type Result struct {
	Nodes         []graph.Node
	ExternalNodes []artifact.ExternalMemoryNode
	Edges         []contractorbuild.Edge
	Geometry      *graph.GeometryTable
	Names         *graph.NameTable
	Restrictions  []artifact.TurnRestriction
}

// Extract parses osmFile and assembles the edge-based graph.
func Extract(osmFile string) (*Result, error) {
	parsed, err := parseOSM(osmFile)
	if err != nil {
		return nil, fmt.Errorf("extractbuild: %w", err)
	}
	dedupNearbyNodes(parsed)
	return buildGraph(parsed)
}
