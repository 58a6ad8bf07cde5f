// Command contract runs the offline contraction step: it reads the
// extractor's node/edge artifacts, runs contractorbuild.Build, and
// writes the final .osrm.ch + .osrm.core snapshot a `routed` process
// loads. Mirrors the flag-parse-then-log-progress shape of the
// teacher's cmd/engine/main.go.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/config"
	"github.com/zummach/osrm/internal/contractorbuild"
	"github.com/zummach/osrm/internal/graph"
)

func main() {
	cfg, err := config.ParseContractorFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("contract: %v", err)
	}

	nodesFile, err := os.Open(cfg.Base + ".osrm.nodes")
	if err != nil {
		log.Fatalf("contract: %v", err)
	}
	defer nodesFile.Close()
	nodes, _, err := artifact.ReadNodesFile(nodesFile)
	if err != nil {
		log.Fatalf("contract: %v", err)
	}

	edgesFile, err := os.Open(cfg.Base + ".osrm.edges")
	if err != nil {
		log.Fatalf("contract: %v", err)
	}
	defer edgesFile.Close()
	fp, err := peekChecksum(cfg.Base + ".osrm.edges")
	if err != nil {
		log.Fatalf("contract: %v", err)
	}
	rawEdges, err := artifact.ReadEdgesFile(edgesFile)
	if err != nil {
		log.Fatalf("contract: %v", err)
	}

	edges := make([]contractorbuild.Edge, len(rawEdges))
	for i, e := range rawEdges {
		edges[i] = contractorbuild.Edge{
			From: e.From, To: e.To, Weight: e.Weight, Dist: e.Dist,
			GeometryID: e.GeometryID, NameID: e.NameID, Flags: e.Flags,
		}
	}

	log.Printf("contract: %d nodes, %d edges, core-fraction %.3f", len(nodes), len(edges), cfg.CoreFraction)
	result, err := contractorbuild.Build(nodes, edges, cfg.CoreFraction)
	if err != nil {
		log.Fatalf("contract: %v", err)
	}
	log.Printf("contract: %d shortcuts added", result.ShortcutCount)

	chFile, err := os.Create(cfg.Base + ".osrm.ch")
	if err != nil {
		log.Fatalf("contract: %v", err)
	}
	defer chFile.Close()
	if err := artifact.WriteCHFile(chFile, fp, int32(len(result.Nodes)), result.Edges); err != nil {
		log.Fatalf("contract: %v", err)
	}

	orderPos, core := coreAssignment(result.Nodes, cfg.CoreFraction)
	coreFile, err := os.Create(cfg.Base + ".osrm.core")
	if err != nil {
		log.Fatalf("contract: %v", err)
	}
	defer coreFile.Close()
	if err := artifact.WriteCoreFile(coreFile, fp, orderPos, core); err != nil {
		log.Fatalf("contract: %v", err)
	}

	fmt.Printf("contract: wrote %s.osrm.ch, %s.osrm.core\n", cfg.Base, cfg.Base)
}

// coreAssignment reports, per node, the OrderPos contractorbuild.Build
// already assigned and whether that node was left in the uncontracted
// core — the same `order >= target` boundary Build uses internally to
// switch from real contraction to a no-search rank assignment.
func coreAssignment(nodes []graph.Node, coreFraction float64) ([]int32, []bool) {
	n := len(nodes)
	target := n
	if coreFraction < 1 {
		target = int(float64(n) * coreFraction)
	}
	orderPos := make([]int32, n)
	core := make([]bool, n)
	for i, node := range nodes {
		orderPos[i] = node.OrderPos
		core[i] = int(node.OrderPos) >= target
	}
	return orderPos, core
}

// peekChecksum reads just the fingerprint header back off an already-
// written artifact file so downstream writes can propagate the same
// checksum the extractor stamped, without re-reading the whole file.
func peekChecksum(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	fp, err := artifact.ReadFingerprint(f)
	if err != nil {
		return 0, err
	}
	return fp.Checksum, nil
}
