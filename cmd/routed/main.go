// Command routed is the router's HTTP front end: it loads a contracted
// snapshot (either a plain <base> artifact set or a live shared-memory
// hot-swap coordinator), assembles the spatial index and matcher around
// it, and serves §6's six operations. Mirrors the load-then-serve shape
// of the teacher's cmd/engine/main.go.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zummach/osrm/internal/apiserver"
	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/config"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/hotswap"
	"github.com/zummach/osrm/internal/matching"
	"github.com/zummach/osrm/internal/spatial"
)

func main() {
	cfg, err := config.ParseRouterFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("routed: %v", err)
	}

	f, err := loadFacade(cfg)
	if err != nil {
		log.Fatalf("routed: %v", err)
	}
	log.Printf("routed: loaded snapshot, %d nodes, checksum %08x", f.NumNodes(), f.Checksum())

	tree := spatial.BuildRtree(buildLeaves(f))
	index := spatial.NewIndex(tree, f, nil, nil)

	h3cache, err := matching.OpenH3CandidateCache(cfg.Base + ".h3cache")
	if err != nil {
		log.Fatalf("routed: open h3 candidate cache: %v", err)
	}
	defer h3cache.Close()

	matcher := matching.NewMatcher(index, f, h3cache)
	engine := apiserver.NewEngine(f, index, matcher)

	reg := prometheus.NewRegistry()
	router := apiserver.NewRouter(engine, reg)

	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port)
	log.Printf("routed: listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

// loadFacade resolves the §6 router config's exactly-one-of <base> /
// --shared-memory invariant into a live facade.DataFacade: a fresh
// in-memory load of the <base> artifact set, or the snapshot already
// published by a running hotswap.Coordinator.
func loadFacade(cfg config.RouterConfig) (facade.DataFacade, error) {
	if cfg.SharedMemory {
		coord, err := hotswap.Open("./hotswap-data")
		if err != nil {
			return nil, fmt.Errorf("open hotswap coordinator: %w", err)
		}
		snap, err := coord.Current()
		if err != nil {
			return nil, fmt.Errorf("no live shared-memory snapshot: %w", err)
		}
		f, ok := snap.Facade.(facade.DataFacade)
		if !ok {
			return nil, fmt.Errorf("shared-memory snapshot has no attached facade yet")
		}
		return f, nil
	}
	return loadFromBase(cfg.Base)
}

func loadFromBase(base string) (facade.DataFacade, error) {
	nodesFile, err := os.Open(base + ".osrm.nodes")
	if err != nil {
		return nil, err
	}
	defer nodesFile.Close()
	nodes, rawNodes, err := artifact.ReadNodesFile(nodesFile)
	if err != nil {
		return nil, err
	}

	coreFile, err := os.Open(base + ".osrm.core")
	if err != nil {
		return nil, err
	}
	defer coreFile.Close()
	orderPos, coreBits, err := artifact.ReadCoreFile(coreFile)
	if err != nil {
		return nil, err
	}
	core := graph.NewCoreMarker(len(nodes))
	for i := range nodes {
		nodes[i].OrderPos = orderPos[i]
		if coreBits[i] {
			core.Set(int32(i))
		}
	}

	chFile, err := os.Open(base + ".osrm.ch")
	if err != nil {
		return nil, err
	}
	defer chFile.Close()
	fp, err := artifact.ReadFingerprint(chFile)
	if err != nil {
		return nil, err
	}
	if _, err := chFile.Seek(0, 0); err != nil {
		return nil, err
	}
	edges, _, err := artifact.ReadCHFile(chFile)
	if err != nil {
		return nil, err
	}

	geomFile, err := os.Open(base + ".osrm.geometry")
	if err != nil {
		return nil, err
	}
	defer geomFile.Close()
	geometry, err := artifact.ReadGeometryFile(geomFile)
	if err != nil {
		return nil, err
	}

	namesFile, err := os.Open(base + ".osrm.names")
	if err != nil {
		return nil, err
	}
	defer namesFile.Close()
	names, err := artifact.ReadNamesFile(namesFile)
	if err != nil {
		return nil, err
	}

	outCSR := graph.BuildCSR(len(nodes), edges)
	inCSR := graph.BuildCSR(len(nodes), reverseEdges(edges))

	timestampFile, err := os.Open(base + ".osrm.timestamp")
	timestamp := ""
	if err == nil {
		defer timestampFile.Close()
		if ts, terr := artifact.ReadTimestampFile(timestampFile); terr == nil {
			timestamp = ts
		}
	}

	f := facade.NewInMemory(outCSR, inCSR, nodes, core,
		geometry, names, graph.NewIntersectionMetadata(),
		nil, nil, nil, fp.Checksum, timestamp)

	trafficLights := make([]bool, len(rawNodes))
	for i, n := range rawNodes {
		trafficLights[i] = n.TrafficLight
	}
	f.SetTrafficLights(trafficLights)

	if laneFile, err := os.Open(base + ".osrm.turnlanes"); err == nil {
		defer laneFile.Close()
		if _, masks, err := artifact.ReadTurnLaneFile(laneFile); err == nil {
			f.SetTurnLanes(masks)
		}
	}

	if restrictionsFile, err := os.Open(base + ".osrm.restrictions"); err == nil {
		defer restrictionsFile.Close()
		if _, err := artifact.ReadRestrictionsFile(restrictionsFile); err != nil {
			log.Printf("routed: read restrictions: %v", err)
		}
		// read-and-validate only: no query-time component consults turn
		// restrictions yet, so this just surfaces a corrupt file at load
		// time instead of silently ignoring it.
	}

	return f, nil
}

func reverseEdges(edges []graph.Edge) []graph.Edge {
	out := make([]graph.Edge, len(edges))
	for i, e := range edges {
		out[i] = e
		out[i].From, out[i].To = e.To, e.From
	}
	return out
}

// buildLeaves walks every directed edge of the loaded facade once to
// build the packed R-tree's leaf set, the in-process equivalent of
// reading a persisted leaf file: the facade already holds every
// coordinate and edge needed, so there is nothing a separate rtree
// artifact would save beyond this one linear pass at startup.
func buildLeaves(f facade.DataFacade) []spatial.Leaf {
	var leaves []spatial.Leaf
	for u := int32(0); u < int32(f.NumNodes()); u++ {
		begin, end := f.GetAdjacentEdgeRange(u)
		from := f.GetCoordinateOfNode(u)
		for edgeID := begin; edgeID < end; edgeID++ {
			if f.GetEdgeData(edgeID).IsShortcut() {
				continue
			}
			v := f.GetTarget(edgeID)
			to := f.GetCoordinateOfNode(v)
			leaves = append(leaves, spatial.Leaf{
				EdgeID:  edgeID,
				Forward: true,
				FromLat: from.Lat, FromLon: from.Lon,
				ToLat: to.Lat, ToLon: to.Lon,
				Bound: spatial.BoundingBox{
					MinLat: minF(from.Lat, to.Lat), MinLon: minF(from.Lon, to.Lon),
					MaxLat: maxF(from.Lat, to.Lat), MaxLon: maxF(from.Lon, to.Lon),
				},
			})
		}
	}
	return leaves
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
