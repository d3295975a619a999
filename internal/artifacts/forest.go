package artifacts

import (
	"fmt"
)

const leaf = -1

type treeFile struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

type forestFile struct {
	NFeatures int        `json:"n_features"`
	Classes   []int      `json:"classes"`
	Trees     []treeFile `json:"trees"`
}

// tree is one fitted decision tree. Leaf distributions are normalized at
// load time.
type tree struct {
	left, right []int
	feature     []int
	threshold   []float64
	dist        [][]float64
}

// Forest is a decision tree ensemble voting by mean class probability.
// A single decision tree is a forest of one.
type Forest struct {
	nFeatures int
	classes   []int
	trees     []tree
}

// LoadForest reads a tree ensemble export.
func LoadForest(path string) (*Forest, error) {
	var f forestFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	forest, err := newForest(f)
	if err != nil {
		return nil, fmt.Errorf("invalid tree ensemble %s: %w", path, err)
	}
	return forest, nil
}

func newForest(f forestFile) (*Forest, error) {
	if f.NFeatures <= 0 {
		return nil, fmt.Errorf("n_features must be positive")
	}
	if len(f.Classes) == 0 {
		return nil, fmt.Errorf("no classes")
	}
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("no trees")
	}

	forest := &Forest{nFeatures: f.NFeatures, classes: f.Classes}
	for ti, tf := range f.Trees {
		n := len(tf.ChildrenLeft)
		if n == 0 || len(tf.ChildrenRight) != n || len(tf.Feature) != n || len(tf.Threshold) != n || len(tf.Value) != n {
			return nil, fmt.Errorf("tree %d: node arrays differ in length", ti)
		}
		t := tree{
			left:      tf.ChildrenLeft,
			right:     tf.ChildrenRight,
			feature:   tf.Feature,
			threshold: tf.Threshold,
			dist:      make([][]float64, n),
		}
		for i := 0; i < n; i++ {
			if t.left[i] == leaf {
				if len(tf.Value[i]) != len(f.Classes) {
					return nil, fmt.Errorf("tree %d node %d: %d class weights for %d classes", ti, i, len(tf.Value[i]), len(f.Classes))
				}
				t.dist[i] = normalize(tf.Value[i])
				continue
			}
			if t.left[i] <= i || t.left[i] >= n || t.right[i] <= i || t.right[i] >= n {
				return nil, fmt.Errorf("tree %d node %d: child index out of range", ti, i)
			}
			if t.feature[i] < 0 || t.feature[i] >= f.NFeatures {
				return nil, fmt.Errorf("tree %d node %d: feature %d out of range", ti, i, t.feature[i])
			}
		}
		forest.trees = append(forest.trees, t)
	}
	return forest, nil
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	out := make([]float64, len(v))
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}

// Predict returns the class with the highest mean probability; ties go to
// the lowest class position.
func (f *Forest) Predict(features []float64) (int, error) {
	if len(features) != f.nFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", f.nFeatures, len(features))
	}

	proba := make([]float64, len(f.classes))
	for _, t := range f.trees {
		node := 0
		for t.left[node] != leaf {
			if features[t.feature[node]] <= t.threshold[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		}
		for i, p := range t.dist[node] {
			proba[i] += p
		}
	}

	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return f.classes[best], nil
}
