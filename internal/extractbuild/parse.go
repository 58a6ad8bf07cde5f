package extractbuild

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// nodeRole classifies how a node is used across every way that references
// it, mirroring the teacher's wayNodeMap (END_NODE/BETWEEN_NODE/
// JUNCTION_NODE in osm_parser2.go): a node used by only one way, as that
// way's first or last node, is an endpoint; used by only one way but
// somewhere in the middle, it's a between-node that will get absorbed into
// whichever segment crosses it; referenced by more than one way (or by the
// same way twice), it's a true intersection and segments are always split
// there.
type nodeRole uint8

const (
	roleBetween nodeRole = iota
	roleEnd
	roleJunction
)

type nodeCoord struct{ lat, lon float64 }

// wayInfo is one accepted way's tags and node list, captured whole during
// the first scan so the second scan never needs to re-decode way objects.
type wayInfo struct {
	id          int64
	name        string
	ref         string
	roundabout  bool
	oneWay      bool
	forward     bool
	maxspeedKMH float64
	nodes       []int64
}

// restrictionRelation is a raw `type=restriction` relation's member refs,
// resolved into node ids by buildGraph once the node-id map exists.
type restrictionRelation struct {
	fromWay int64
	viaNode int64
	toWay   int64
	only    bool
}

type parsedOSM struct {
	nodeRole     map[int64]nodeRole
	nodeCoord    map[int64]nodeCoord
	barrierNode  map[int64]bool
	trafficLight map[int64]bool
	ways         []wayInfo
	restrictions []restrictionRelation
}

// parseOSM runs the two-pass scan: pass one classifies every way-node's
// role and captures each accepted way's tags/node list; pass two walks
// the nodes to attach coordinates and barrier/signal flags, and captures
// every restriction relation's member refs.
func parseOSM(path string) (*parsedOSM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p := &parsedOSM{
		nodeRole:     make(map[int64]nodeRole),
		nodeCoord:    make(map[int64]nodeCoord),
		barrierNode:  make(map[int64]bool),
		trafficLight: make(map[int64]bool),
	}

	if err := p.scanWays(f); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", path, err)
	}
	if err := p.scanNodesAndRelations(f); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parsedOSM) scanWays(f *os.File) error {
	scanner := osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	for scanner.Scan() {
		o := scanner.Object()
		way, ok := o.(*osm.Way)
		if !ok {
			continue
		}
		if len(way.Nodes) < 2 {
			continue
		}
		highway := way.Tags.Find("highway")
		if !acceptWay(highway, way.Tags.Find("route"), way.Tags.Find("junction")) {
			continue
		}

		ids := make([]int64, len(way.Nodes))
		for i, n := range way.Nodes {
			id := int64(n.ID)
			ids[i] = id
			if _, seen := p.nodeRole[id]; !seen {
				if i == 0 || i == len(way.Nodes)-1 {
					p.nodeRole[id] = roleEnd
				} else {
					p.nodeRole[id] = roleBetween
				}
			} else {
				// referenced by a prior way (or twice by this one): a real
				// intersection, regardless of position within this way.
				p.nodeRole[id] = roleJunction
			}
		}

		p.ways = append(p.ways, buildWayInfo(way, ids))
	}
	return scanner.Err()
}

func buildWayInfo(way *osm.Way, ids []int64) wayInfo {
	wi := wayInfo{
		id:    int64(way.ID),
		name:  way.Tags.Find("name"),
		ref:   way.Tags.Find("ref"),
		nodes: ids,
	}

	vf := isRestrictedAccess(way.Tags.Find("vehicle:forward"))
	mvf := isRestrictedAccess(way.Tags.Find("motor_vehicle:forward"))
	vb := isRestrictedAccess(way.Tags.Find("vehicle:backward"))
	mvb := isRestrictedAccess(way.Tags.Find("motor_vehicle:backward"))
	oneway := way.Tags.Find("oneway")
	if oneway != "" || vf || mvf || vb || mvb {
		wi.oneWay = true
	}
	if oneway == "-1" || vf || mvf {
		wi.forward = false
	} else if oneway != "-1" && !vf && !mvf {
		wi.forward = true
	}

	highwaySpeed := defaultSpeedForHighway(way.Tags.Find("highway"))
	wi.maxspeedKMH = highwaySpeed
	if raw := way.Tags.Find("maxspeed"); raw != "" {
		if v, ok := parseMaxspeed(raw); ok && v > 0 {
			wi.maxspeedKMH = v
		}
	}

	junction := way.Tags.Find("junction")
	wi.roundabout = junction == "roundabout" || junction == "circular"

	return wi
}

func (p *parsedOSM) scanNodesAndRelations(f *os.File) error {
	scanner := osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	for scanner.Scan() {
		o := scanner.Object()
		switch v := o.(type) {
		case *osm.Node:
			id := int64(v.ID)
			if _, ok := p.nodeRole[id]; ok {
				p.nodeCoord[id] = nodeCoord{lat: v.Lat, lon: v.Lon}
			}
			if v.Tags.Find("barrier") != "" || v.Tags.Find("ford") != "" {
				p.barrierNode[id] = true
			}
			if v.Tags.Find("highway") == "traffic_signals" {
				p.trafficLight[id] = true
			}
		case *osm.Relation:
			if v.Tags.Find("type") != "restriction" {
				continue
			}
			rel := restrictionRelation{fromWay: -1, viaNode: -1, toWay: -1}
			restrictionTag := v.Tags.Find("restriction")
			rel.only = contains(restrictionTag, "only_")
			for _, m := range v.Members {
				switch m.Role {
				case "from":
					rel.fromWay = m.Ref
				case "to":
					rel.toWay = m.Ref
				case "via":
					if m.Type == osm.TypeNode {
						rel.viaNode = m.Ref
					}
				}
			}
			if rel.fromWay != -1 && rel.toWay != -1 && rel.viaNode != -1 {
				p.restrictions = append(p.restrictions, rel)
			}
		}
	}
	return scanner.Err()
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
