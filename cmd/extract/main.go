// Command extract runs the offline way-extraction step: it reads a raw
// OpenStreetMap PBF file and writes the node, edge, geometry, name and
// restriction artifacts a later `contract` run consumes. Mirrors the
// flag-parse-then-log-progress shape of the teacher's cmd/engine/main.go.
package main

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"log"
	"os"

	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/config"
	"github.com/zummach/osrm/internal/extractbuild"
)

func main() {
	cfg, err := config.ParseExtractorFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("extract: %v", err)
	}

	log.Printf("extract: reading %s", cfg.OSMFile)
	result, err := extractbuild.Extract(cfg.OSMFile)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}
	log.Printf("extract: %d nodes, %d edges, %d restrictions",
		len(result.Nodes), len(result.Edges), len(result.Restrictions))

	checksum := checksumOf(result)

	if err := writeFile(cfg.Base+".osrm.nodes", func(f *os.File) error {
		return artifact.WriteNodesFile(f, checksum, result.ExternalNodes)
	}); err != nil {
		log.Fatalf("extract: %v", err)
	}

	rawEdges := make([]artifact.RawEdge, len(result.Edges))
	for i, e := range result.Edges {
		rawEdges[i] = artifact.RawEdge{
			From: e.From, To: e.To, Weight: e.Weight, Dist: e.Dist,
			GeometryID: e.GeometryID, NameID: e.NameID, Flags: e.Flags,
		}
	}
	if err := writeFile(cfg.Base+".osrm.edges", func(f *os.File) error {
		return artifact.WriteEdgesFile(f, checksum, rawEdges)
	}); err != nil {
		log.Fatalf("extract: %v", err)
	}

	if err := writeFile(cfg.Base+".osrm.geometry", func(f *os.File) error {
		return artifact.WriteGeometryFile(f, checksum, result.Geometry, int32(result.Geometry.Count()))
	}); err != nil {
		log.Fatalf("extract: %v", err)
	}

	if err := writeFile(cfg.Base+".osrm.names", func(f *os.File) error {
		return artifact.WriteNamesFile(f, checksum, result.Names, result.Names.Count())
	}); err != nil {
		log.Fatalf("extract: %v", err)
	}

	if err := writeFile(cfg.Base+".osrm.restrictions", func(f *os.File) error {
		return artifact.WriteRestrictionsFile(f, checksum, result.Restrictions)
	}); err != nil {
		log.Fatalf("extract: %v", err)
	}

	fmt.Printf("extract: wrote %s.osrm.*\n", cfg.Base)
}

// checksumOf hashes every node's coordinate (not its OSM id) so the contractor
// and router can detect a mismatched artifact set (§7's
// IncompatibleVersion / stale-hint family of failures) the way §3's
// Fingerprint table calls for.
func checksumOf(r *extractbuild.Result) uint32 {
	h := crc32.NewIEEE()
	buf := make([]byte, 8)
	for _, n := range r.ExternalNodes {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(n.Lon))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(n.Lat))
		h.Write(buf)
	}
	return h.Sum32()
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
