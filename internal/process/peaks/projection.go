package peaks

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/lueurxax/social-insight/internal/core/domain"
)

// ProjectedPoint is one hour placed on the first two principal axes.
type ProjectedPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Hour    int     `json:"hour"`
	Count   int     `json:"count"`
	Cluster int     `json:"cluster"`
	Outlier bool    `json:"is_outlier"`
}

// Projection is a 2-D view of the standardized features for plotting.
// It never influences cluster assignment.
type Projection struct {
	Points            []ProjectedPoint `json:"points"`
	ExplainedVariance []float64        `json:"explained_variance"`
}

// project runs PCA over the standardized [hour, count] features. Fewer than two
// points give an empty projection.
func project(points []Point, labels [hoursPerDay]int) Projection {
	proj := Projection{Points: []ProjectedPoint{}, ExplainedVariance: []float64{}}

	if len(points) < featureCount {
		return proj
	}

	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Hour < sorted[j].Hour })

	x := standardize(sorted)

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return proj
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	_, comps := vecs.Dims()
	axes := min(comps, featureCount)

	var scores mat.Dense
	scores.Mul(x, vecs.Slice(0, featureCount, 0, axes))

	for i, pt := range sorted {
		p := ProjectedPoint{
			X:       scores.At(i, 0),
			Hour:    pt.Hour,
			Count:   pt.Count,
			Cluster: labels[pt.Hour],
			Outlier: labels[pt.Hour] == domain.NoiseClusterID,
		}

		if axes > 1 {
			p.Y = scores.At(i, 1)
		}

		proj.Points = append(proj.Points, p)
	}

	vars := pc.VarsTo(nil)

	var total float64
	for _, v := range vars {
		total += v
	}

	proj.ExplainedVariance = make([]float64, featureCount)

	if total > 0 {
		for i := 0; i < axes && i < len(vars); i++ {
			proj.ExplainedVariance[i] = vars[i] / total
		}
	}

	return proj
}
