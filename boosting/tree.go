package boosting

import (
	"math"
	"sort"
)

// Node is one node of a regression tree. Numeric splits send x <= Threshold
// left; categorical splits send codes in Categories left. Rows with a NaN
// split feature follow DefaultLeft.
type Node struct {
	Feature     int
	Threshold   float64
	Categories  []int // non-nil marks a categorical split
	DefaultLeft bool
	Left        int
	Right       int
	Leaf        bool
	Value       float64
}

// Tree is a flattened regression tree. Weight scales its contribution in the
// ensemble; dart normalization rescales it after the fact.
type Tree struct {
	Nodes  []Node
	Weight float64
}

// PredictRow returns the raw (unweighted) tree output for one feature row.
func (t *Tree) PredictRow(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		v := x[n.Feature]
		left := false
		switch {
		case math.IsNaN(v):
			left = n.DefaultLeft
		case n.Categories != nil:
			code := int(v)
			for _, c := range n.Categories {
				if c == code {
					left = true
					break
				}
			}
		default:
			left = v <= n.Threshold
		}
		if left {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// splitInfo is a candidate split for one open leaf.
type splitInfo struct {
	feature     int
	threshold   float64
	categories  []int
	defaultLeft bool
	gain        float64
	leftRows    []int
	rightRows   []int
}

// openLeaf is a splittable leaf during leaf-wise growth.
type openLeaf struct {
	node  int
	rows  []int
	depth int
	best  *splitInfo
}

// treeGrower builds one tree on the bagged rows. Columns are stored
// feature-major so split scans stream through contiguous memory.
type treeGrower struct {
	cols     [][]float64
	grad     []float64
	isCat    []bool
	binEdges [][]float64 // nil per feature disables histogram scanning
	params   TreeParams
}

const unlimitedLeafCap = 1 << 12

func (g *treeGrower) grow(rows []int, feats []int) Tree {
	t := Tree{Weight: 1}
	t.Nodes = append(t.Nodes, Node{Leaf: true, Value: g.leafValue(rows)})

	leafCap := g.params.NumLeaves
	if leafCap <= 0 {
		leafCap = unlimitedLeafCap
	}

	open := []*openLeaf{{node: 0, rows: rows, depth: 0}}
	open[0].best = g.bestSplit(rows, feats, 0)
	numLeaves := 1

	for numLeaves < leafCap {
		// Pick the open leaf with the highest gain.
		bestIdx := -1
		for i, l := range open {
			if l.best == nil {
				continue
			}
			if bestIdx == -1 || l.best.gain > open[bestIdx].best.gain {
				bestIdx = i
			}
		}
		if bestIdx == -1 {
			break
		}

		leaf := open[bestIdx]
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		s := leaf.best

		leftID := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{Leaf: true, Value: g.leafValue(s.leftRows)})
		rightID := len(t.Nodes)
		t.Nodes = append(t.Nodes, Node{Leaf: true, Value: g.leafValue(s.rightRows)})

		n := &t.Nodes[leaf.node]
		n.Leaf = false
		n.Feature = s.feature
		n.Threshold = s.threshold
		n.Categories = s.categories
		n.DefaultLeft = s.defaultLeft
		n.Left = leftID
		n.Right = rightID
		numLeaves++

		childDepth := leaf.depth + 1
		left := &openLeaf{node: leftID, rows: s.leftRows, depth: childDepth}
		right := &openLeaf{node: rightID, rows: s.rightRows, depth: childDepth}
		left.best = g.bestSplit(left.rows, feats, childDepth)
		right.best = g.bestSplit(right.rows, feats, childDepth)
		open = append(open, left, right)
	}

	return t
}

func (g *treeGrower) leafValue(rows []int) float64 {
	var sum float64
	for _, i := range rows {
		sum += g.grad[i]
	}
	return sum / (float64(len(rows)) + g.params.Lambda)
}

func (g *treeGrower) bestSplit(rows []int, feats []int, depth int) *splitInfo {
	if g.params.MaxDepth > 0 && depth >= g.params.MaxDepth {
		return nil
	}
	if len(rows) < 2*g.params.MinChildSamples {
		return nil
	}

	var best *splitInfo
	for _, f := range feats {
		var s *splitInfo
		if g.isCat[f] {
			s = g.categoricalSplit(rows, f)
		} else if g.binEdges != nil && g.binEdges[f] != nil {
			s = g.histogramSplit(rows, f)
		} else {
			s = g.exactSplit(rows, f)
		}
		if s != nil && (best == nil || s.gain > best.gain) {
			best = s
		}
	}
	if best == nil || best.gain <= 0 {
		return nil
	}

	best.leftRows, best.rightRows = g.partition(rows, best)
	if len(best.leftRows) < g.params.MinChildSamples || len(best.rightRows) < g.params.MinChildSamples {
		return nil
	}
	return best
}

func gainScore(sum float64, n float64, lambda float64) float64 {
	return sum * sum / (n + lambda)
}

// exactSplit scans sorted feature values for the best threshold. Missing
// rows are tried on both sides.
func (g *treeGrower) exactSplit(rows []int, f int) *splitInfo {
	col := g.cols[f]

	type vg struct{ v, g float64 }
	vals := make([]vg, 0, len(rows))
	var sumMiss, sumAll float64
	nMiss := 0
	for _, i := range rows {
		v := col[i]
		gi := g.grad[i]
		sumAll += gi
		if math.IsNaN(v) {
			nMiss++
			sumMiss += gi
			continue
		}
		vals = append(vals, vg{v, gi})
	}
	if len(vals) < 2 {
		return nil
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	lambda := g.params.Lambda
	nTotal := float64(len(rows))
	parent := gainScore(sumAll, nTotal, lambda)

	var best *splitInfo
	var sumLeft float64
	for k := 1; k < len(vals); k++ {
		sumLeft += vals[k-1].g
		if vals[k-1].v == vals[k].v {
			continue
		}
		threshold := (vals[k-1].v + vals[k].v) / 2
		for _, missLeft := range []bool{true, false} {
			sl, nl := sumLeft, float64(k)
			if missLeft {
				sl += sumMiss
				nl += float64(nMiss)
			}
			sr := sumAll - sl
			nr := nTotal - nl
			if nl < float64(g.params.MinChildSamples) || nr < float64(g.params.MinChildSamples) {
				continue
			}
			gain := gainScore(sl, nl, lambda) + gainScore(sr, nr, lambda) - parent
			if best == nil || gain > best.gain {
				best = &splitInfo{feature: f, threshold: threshold, defaultLeft: missLeft, gain: gain}
			}
		}
	}
	return best
}

// histogramSplit aggregates gradients into the feature's precomputed bins
// and scans bin boundaries instead of raw values.
func (g *treeGrower) histogramSplit(rows []int, f int) *splitInfo {
	edges := g.binEdges[f]
	col := g.cols[f]

	nBins := len(edges) + 1
	sums := make([]float64, nBins)
	counts := make([]float64, nBins)
	var sumMiss, sumAll float64
	nMiss := 0
	for _, i := range rows {
		v := col[i]
		gi := g.grad[i]
		sumAll += gi
		if math.IsNaN(v) {
			nMiss++
			sumMiss += gi
			continue
		}
		b := sort.SearchFloat64s(edges, v)
		sums[b] += gi
		counts[b]++
	}

	lambda := g.params.Lambda
	nTotal := float64(len(rows))
	parent := gainScore(sumAll, nTotal, lambda)

	var best *splitInfo
	var sumLeft, nLeft float64
	for b := 0; b < nBins-1; b++ {
		sumLeft += sums[b]
		nLeft += counts[b]
		if counts[b] == 0 {
			continue
		}
		for _, missLeft := range []bool{true, false} {
			sl, nl := sumLeft, nLeft
			if missLeft {
				sl += sumMiss
				nl += float64(nMiss)
			}
			sr := sumAll - sl
			nr := nTotal - nl
			if nl < float64(g.params.MinChildSamples) || nr < float64(g.params.MinChildSamples) {
				continue
			}
			gain := gainScore(sl, nl, lambda) + gainScore(sr, nr, lambda) - parent
			if best == nil || gain > best.gain {
				best = &splitInfo{feature: f, threshold: edges[b], defaultLeft: missLeft, gain: gain}
			}
		}
	}
	return best
}

// categoricalSplit orders categories by mean gradient and scans prefixes of
// that order, the standard trick for optimal L2 categorical partitions.
func (g *treeGrower) categoricalSplit(rows []int, f int) *splitInfo {
	col := g.cols[f]

	sums := make(map[int]float64)
	counts := make(map[int]float64)
	var sumMiss, sumAll float64
	nMiss := 0
	for _, i := range rows {
		v := col[i]
		gi := g.grad[i]
		sumAll += gi
		if math.IsNaN(v) {
			nMiss++
			sumMiss += gi
			continue
		}
		c := int(v)
		sums[c] += gi
		counts[c]++
	}
	if len(sums) < 2 {
		return nil
	}

	cats := make([]int, 0, len(sums))
	for c := range sums {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(a, b int) bool {
		return sums[cats[a]]/counts[cats[a]] < sums[cats[b]]/counts[cats[b]]
	})

	lambda := g.params.Lambda
	nTotal := float64(len(rows))
	parent := gainScore(sumAll, nTotal, lambda)

	var best *splitInfo
	var sumLeft, nLeft float64
	for k := 1; k < len(cats); k++ {
		c := cats[k-1]
		sumLeft += sums[c]
		nLeft += counts[c]
		for _, missLeft := range []bool{true, false} {
			sl, nl := sumLeft, nLeft
			if missLeft {
				sl += sumMiss
				nl += float64(nMiss)
			}
			sr := sumAll - sl
			nr := nTotal - nl
			if nl < float64(g.params.MinChildSamples) || nr < float64(g.params.MinChildSamples) {
				continue
			}
			gain := gainScore(sl, nl, lambda) + gainScore(sr, nr, lambda) - parent
			if best == nil || gain > best.gain {
				left := append([]int(nil), cats[:k]...)
				best = &splitInfo{feature: f, categories: left, defaultLeft: missLeft, gain: gain}
			}
		}
	}
	return best
}

func (g *treeGrower) partition(rows []int, s *splitInfo) (left, right []int) {
	col := g.cols[s.feature]
	var leftSet map[int]bool
	if s.categories != nil {
		leftSet = make(map[int]bool, len(s.categories))
		for _, c := range s.categories {
			leftSet[c] = true
		}
	}
	for _, i := range rows {
		v := col[i]
		goLeft := false
		switch {
		case math.IsNaN(v):
			goLeft = s.defaultLeft
		case leftSet != nil:
			goLeft = leftSet[int(v)]
		default:
			goLeft = v <= s.threshold
		}
		if goLeft {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

// quantileEdges computes up to maxBins-1 bin boundaries from the sorted
// non-missing values of one feature column. Returns nil when the column has
// too few distinct values to bin.
func quantileEdges(col []float64, maxBins int) []float64 {
	vals := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) <= maxBins {
		return nil
	}
	sort.Float64s(vals)

	edges := make([]float64, 0, maxBins-1)
	for b := 1; b < maxBins; b++ {
		idx := b * len(vals) / maxBins
		if idx <= 0 || idx >= len(vals) {
			continue
		}
		e := (vals[idx-1] + vals[idx]) / 2
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		return nil
	}
	return edges
}
