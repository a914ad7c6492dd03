package predict

// Prediction is a compound label with the classifier's confidence in it.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier consumes a feature matrix and returns a compound prediction.
// Implementations own their model resources and release them on Close.
type Classifier interface {
	Predict(features *FeatureMatrix) (Prediction, error)
	Close() error
}

// modalVote reduces per-point class votes to the most frequent class and
// its vote share. Ties resolve to the class seen first.
func modalVote(classes []int64) (int64, float64) {
	if len(classes) == 0 {
		return 0, 0
	}

	counts := map[int64]int{}
	var order []int64
	for _, c := range classes {
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, float64(counts[best]) / float64(len(classes))
}
