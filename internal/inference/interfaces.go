package inference

import "sync"

// Classifier predicts a single class index for one feature row.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// Regressor predicts a scalar from a (batch, timesteps, features) input.
type Regressor interface {
	Predict(input [][][]float64) (float64, error)
}

// Scaler is a fitted min-max transform.
type Scaler interface {
	Transform(row []float64) ([]float64, error)
	// DataMin and DataMax return the per-column bounds seen during fitting.
	DataMin() []float64
	DataMax() []float64
	FeatureCount() int
}

// SynchronizedClassifier serializes calls into a classifier whose runtime
// is not safe for concurrent inference.
type SynchronizedClassifier struct {
	mu    sync.Mutex
	inner Classifier
}

func NewSynchronizedClassifier(inner Classifier) *SynchronizedClassifier {
	return &SynchronizedClassifier{inner: inner}
}

func (s *SynchronizedClassifier) Predict(features []float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Predict(features)
}

// SynchronizedRegressor is the Regressor counterpart of
// SynchronizedClassifier.
type SynchronizedRegressor struct {
	mu    sync.Mutex
	inner Regressor
}

func NewSynchronizedRegressor(inner Regressor) *SynchronizedRegressor {
	return &SynchronizedRegressor{inner: inner}
}

func (s *SynchronizedRegressor) Predict(input [][][]float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Predict(input)
}
