package graph

// GeometryTable maps a packed-geometry id to its ordered list of
// (via-node, segment-weight, datasource) tuples — the uncompressed
// polyline of one graph edge (§3 Geometry table).
type GeometryTable struct {
	offsets []int32 // prefix-sum, len = count+1
	points  []GeometryPoint
}

func NewGeometryTable() *GeometryTable {
	return &GeometryTable{offsets: []int32{0}}
}

// Append adds one geometry's point list and returns its id.
func (g *GeometryTable) Append(points []GeometryPoint) int32 {
	id := int32(len(g.offsets) - 1)
	g.points = append(g.points, points...)
	g.offsets = append(g.offsets, int32(len(g.points)))
	return id
}

// Count returns the number of geometry ids appended so far.
func (g *GeometryTable) Count() int32 { return int32(len(g.offsets) - 1) }

// Get returns the node sequence and per-segment weights for a geometry id,
// matching GetUncompressedGeometry/GetUncompressedWeights (§4.1).
func (g *GeometryTable) Get(id int32) []GeometryPoint {
	if id < 0 || int(id) >= len(g.offsets)-1 {
		return nil
	}
	return g.points[g.offsets[id]:g.offsets[id+1]]
}

// NameTable is a prefix-sum index from name_id to four consecutive strings
// (name, destination, pronunciation, ref) retrieved by offset arithmetic
// (§3 Name table).
type NameTable struct {
	offsets []int32 // one entry per name_id, 4 slots each, len = 4*count+1
	blob    []byte
}

func NewNameTable() *NameTable {
	return &NameTable{offsets: []int32{0}}
}

// Append stores the four strings for one name_id and returns that id.
func (n *NameTable) Append(name, destinations, pronunciation, ref string) int {
	id := (len(n.offsets) - 1) / 4
	for _, s := range [4]string{name, destinations, pronunciation, ref} {
		n.blob = append(n.blob, s...)
		n.offsets = append(n.offsets, int32(len(n.blob)))
	}
	return id
}

// Count returns the number of name ids appended so far.
func (n *NameTable) Count() int { return (len(n.offsets) - 1) / 4 }

func (n *NameTable) slot(id, which int) string {
	base := id*4 + which
	if base < 0 || base+1 >= len(n.offsets) {
		return ""
	}
	return string(n.blob[n.offsets[base]:n.offsets[base+1]])
}

func (n *NameTable) Name(id int) string          { return n.slot(id, 0) }
func (n *NameTable) Destinations(id int) string  { return n.slot(id, 1) }
func (n *NameTable) Pronunciation(id int) string { return n.slot(id, 2) }
func (n *NameTable) Ref(id int) string           { return n.slot(id, 3) }

// CoreMarker is the bitset over V identifying the core retained after
// partial contraction (§3 Core marker).
type CoreMarker struct {
	bits []uint64
}

func NewCoreMarker(numNodes int) *CoreMarker {
	return &CoreMarker{bits: make([]uint64, (numNodes+63)/64)}
}

func (c *CoreMarker) Set(node int32) {
	c.bits[node/64] |= 1 << uint(node%64)
}

func (c *CoreMarker) IsCore(node int32) bool {
	return c.bits[node/64]&(1<<uint(node%64)) != 0
}

// IntersectionMetadata holds the per-node bearing class and per-edge
// entry class referenced by §3/§4.9.
type IntersectionMetadata struct {
	BearingClassOf map[int32]int32 // node -> bearing class id
	EntryClassOf   map[int32]int32 // edge -> entry class id
	BearingClasses []BearingClass
	EntryClasses   []EntryClass
}

func NewIntersectionMetadata() *IntersectionMetadata {
	return &IntersectionMetadata{
		BearingClassOf: make(map[int32]int32),
		EntryClassOf:   make(map[int32]int32),
	}
}

func (m *IntersectionMetadata) BearingClassFor(node int32) BearingClass {
	id, ok := m.BearingClassOf[node]
	if !ok {
		return BearingClass{}
	}
	return m.BearingClasses[id]
}

func (m *IntersectionMetadata) EntryClassFor(edge int32) EntryClass {
	id, ok := m.EntryClassOf[edge]
	if !ok {
		return EntryClass{}
	}
	return m.EntryClasses[id]
}
