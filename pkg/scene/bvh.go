package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// SplitMethod selects how interior BVH nodes partition their primitives
type SplitMethod int

const (
	// SplitMedian splits at the median centroid on the widest axis
	SplitMedian SplitMethod = iota
	// SplitSAH minimises the surface area heuristic over bucketed centroids
	SplitSAH
)

func (m SplitMethod) String() string {
	switch m {
	case SplitMedian:
		return "median"
	case SplitSAH:
		return "sah"
	default:
		return fmt.Sprintf("SplitMethod(%d)", int(m))
	}
}

// ParseSplitMethod converts "median" or "sah" into a SplitMethod
func ParseSplitMethod(name string) (SplitMethod, error) {
	switch strings.ToLower(name) {
	case "median", "":
		return SplitMedian, nil
	case "sah":
		return SplitSAH, nil
	}
	return SplitMedian, fmt.Errorf("%w: unknown BVH split method %q", ErrInvalidConfig, name)
}

// BVHNode is either a leaf holding primitives or an interior node with two children
type BVHNode struct {
	BoundingBox   core.AABB
	Left          *BVHNode
	Right         *BVHNode
	SplitAxis     core.Axis
	SplitLocation float64      // Centroid coordinate the children were partitioned at
	Primitives    []*Primitive // Leaf primitives (nil for interior nodes)
}

// IsLeaf reports whether the node stores primitives directly
func (n *BVHNode) IsLeaf() bool {
	return n.Primitives != nil
}

// BVH is a bounding volume hierarchy over scene primitives. It is immutable
// after construction and safe for concurrent queries.
type BVH struct {
	Root  *BVHNode
	Split SplitMethod
}

// Leaf threshold: this many or fewer primitives always form a leaf
const leafThreshold = 4

const (
	sahBuckets       = 12
	sahTraversalCost = 1.0 / 8.0
)

type primitiveInfo struct {
	primitive *Primitive
	bounds    core.AABB
	centroid  core.Vec3
}

// NewBVH builds a hierarchy over primitives. It panics when primitives is
// empty; scene.New checks for that before building.
func NewBVH(primitives []*Primitive, split SplitMethod) *BVH {
	if len(primitives) == 0 {
		panic("scene: cannot build a BVH without primitives")
	}

	infos := make([]primitiveInfo, len(primitives))
	for i, p := range primitives {
		bounds := p.Bounds()
		infos[i] = primitiveInfo{primitive: p, bounds: bounds, centroid: bounds.Center()}
	}

	var root *BVHNode
	switch split {
	case SplitSAH:
		root = buildSAH(infos)
	default:
		root = buildMedian(infos)
	}
	return &BVH{Root: root, Split: split}
}

func unionBounds(infos []primitiveInfo) core.AABB {
	bounds := infos[0].bounds
	for i := 1; i < len(infos); i++ {
		bounds = bounds.Union(infos[i].bounds)
	}
	return bounds
}

func centroidBounds(infos []primitiveInfo) core.AABB {
	bounds := core.NewAABB(infos[0].centroid, infos[0].centroid)
	for i := 1; i < len(infos); i++ {
		bounds = bounds.Union(core.NewAABB(infos[i].centroid, infos[i].centroid))
	}
	return bounds
}

func newLeaf(bounds core.AABB, infos []primitiveInfo) *BVHNode {
	primitives := make([]*Primitive, len(infos))
	for i, info := range infos {
		primitives[i] = info.primitive
	}
	return &BVHNode{BoundingBox: bounds, Primitives: primitives}
}

// buildMedian splits at the median centroid along the axis where the
// centroids spread the most
func buildMedian(infos []primitiveInfo) *BVHNode {
	bounds := unionBounds(infos)
	if len(infos) <= leafThreshold {
		return newLeaf(bounds, infos)
	}

	centroids := centroidBounds(infos)
	axis := centroids.LongestAxis()
	if centroids.Min.Get(axis) == centroids.Max.Get(axis) {
		// Every centroid coincides, so any split leaves one side empty
		return newLeaf(bounds, infos)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].centroid.Get(axis) < infos[j].centroid.Get(axis)
	})
	mid := (len(infos) - 1) / 2

	return &BVHNode{
		BoundingBox:   bounds,
		Left:          buildMedian(infos[:mid]),
		Right:         buildMedian(infos[mid:]),
		SplitAxis:     axis,
		SplitLocation: infos[mid].centroid.Get(axis),
	}
}

type sahBucket struct {
	bounds core.AABB
	count  int
}

// buildSAH partitions centroids into buckets and splits where the expected
// intersection cost is lowest
func buildSAH(infos []primitiveInfo) *BVHNode {
	bounds := unionBounds(infos)
	if len(infos) <= 1 {
		return newLeaf(bounds, infos)
	}

	totalArea := bounds.SurfaceArea()
	if totalArea == 0 {
		return newLeaf(bounds, infos)
	}

	centroids := centroidBounds(infos)
	axis := centroids.LongestAxis()
	if centroids.Min.Get(axis) == centroids.Max.Get(axis) {
		return newLeaf(bounds, infos)
	}

	bucketIndex := func(centroid core.Vec3) int {
		index := int(sahBuckets * centroids.Offset(centroid).Get(axis))
		// The right-most centroid belongs in the last bucket
		return min(index, sahBuckets-1)
	}

	var buckets [sahBuckets]sahBucket
	for _, info := range infos {
		b := &buckets[bucketIndex(info.centroid)]
		if b.count == 0 {
			b.bounds = info.bounds
		} else {
			b.bounds = b.bounds.Union(info.bounds)
		}
		b.count++
	}

	// Cost of splitting after each bucket but the last
	var costs [sahBuckets - 1]float64
	for i := range costs {
		costs[i] = sahTraversalCost +
			partitionCost(buckets[:i+1], totalArea) +
			partitionCost(buckets[i+1:], totalArea)
	}

	best := 0
	for i, cost := range costs {
		if cost < costs[best] {
			best = i
		}
	}

	// A leaf is cheaper when intersecting everything costs less than splitting
	if float64(len(infos)) <= costs[best] && len(infos) <= leafThreshold {
		return newLeaf(bounds, infos)
	}

	mid := partition(infos, func(info primitiveInfo) bool {
		return bucketIndex(info.centroid) <= best
	})
	if mid == 0 || mid == len(infos) {
		return newLeaf(bounds, infos)
	}

	return &BVHNode{
		BoundingBox:   bounds,
		Left:          buildSAH(infos[:mid]),
		Right:         buildSAH(infos[mid:]),
		SplitAxis:     axis,
		SplitLocation: centroids.Min.Get(axis) + float64(best+1)/sahBuckets*(centroids.Max.Get(axis)-centroids.Min.Get(axis)),
	}
}

func partitionCost(buckets []sahBucket, totalArea float64) float64 {
	var merged sahBucket
	for _, b := range buckets {
		if b.count == 0 {
			continue
		}
		if merged.count == 0 {
			merged.bounds = b.bounds
		} else {
			merged.bounds = merged.bounds.Union(b.bounds)
		}
		merged.count += b.count
	}
	if merged.count == 0 {
		return 0
	}
	return float64(merged.count) * merged.bounds.SurfaceArea() / totalArea
}

// partition moves the infos matching left to the front and returns how many there are
func partition(infos []primitiveInfo, left func(primitiveInfo) bool) int {
	i := 0
	for j := range infos {
		if left(infos[j]) {
			infos[i], infos[j] = infos[j], infos[i]
			i++
		}
	}
	return i
}

// visits reports whether a ray can reach anything inside the node. Rays that
// start inside the box are always let through.
func (n *BVHNode) visits(ray core.Ray) bool {
	return n.BoundingBox.Hit(ray) || n.BoundingBox.Contains(ray.Origin)
}

// Intersect finds the nearest primitive hit along ray, shrinking its MaxDistance
func (bvh *BVH) Intersect(ray *core.Ray) (Intersection, bool) {
	return bvh.intersectNode(bvh.Root, ray)
}

func (bvh *BVH) intersectNode(node *BVHNode, ray *core.Ray) (Intersection, bool) {
	if !node.visits(*ray) {
		return Intersection{}, false
	}

	if node.IsLeaf() {
		var closest Intersection
		hitAnything := false
		for _, p := range node.Primitives {
			// Each accepted hit shrinks the ray, so later hits are closer
			if hit, ok := p.Intersect(ray); ok {
				closest = hit
				hitAnything = true
			}
		}
		return closest, hitAnything
	}

	// Visit the child nearer along the split axis first
	first, second := node.Left, node.Right
	if ray.Direction.Get(node.SplitAxis) < 0 {
		first, second = second, first
	}

	closest, hitAnything := bvh.intersectNode(first, ray)
	if hit, ok := bvh.intersectNode(second, ray); ok {
		closest = hit
		hitAnything = true
	}
	return closest, hitAnything
}

// Intersects reports whether ray hits any primitive before its MaxDistance
func (bvh *BVH) Intersects(ray core.Ray) bool {
	return bvh.intersectsNode(bvh.Root, ray)
}

func (bvh *BVH) intersectsNode(node *BVHNode, ray core.Ray) bool {
	if !node.visits(ray) {
		return false
	}

	if node.IsLeaf() {
		for _, p := range node.Primitives {
			if p.Intersects(ray) {
				return true
			}
		}
		return false
	}

	first, second := node.Left, node.Right
	if ray.Direction.Get(node.SplitAxis) < 0 {
		first, second = second, first
	}
	return bvh.intersectsNode(first, ray) || bvh.intersectsNode(second, ray)
}

// Bounds returns the bounds of every primitive in the hierarchy
func (bvh *BVH) Bounds() core.AABB {
	return bvh.Root.BoundingBox
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
	MaxLeafSize     int
}

func (s BVHStats) String() string {
	return fmt.Sprintf("%d nodes, %d leaves, %d primitives, depth max %d avg %.1f, largest leaf %d",
		s.TotalNodes, s.LeafNodes, s.TotalPrimitives, s.MaxDepth, s.AvgDepth, s.MaxLeafSize)
}

// Stats walks the tree and summarises its shape
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.Primitives)
		stats.MaxLeafSize = max(stats.MaxLeafSize, len(node.Primitives))
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}
	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
