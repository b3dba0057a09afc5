package recognition

import "math"

// CandidateEmbedding is one enrolled student's stored embedding, as fed to
// the matcher by the Attendance Service's candidate-set assembly step.
type CandidateEmbedding struct {
	StudentID   int64
	EmbeddingID int64
	Vector      []float64
}

// MatchResult is the Matcher's verdict for one query vector against a
// candidate set.
type MatchResult struct {
	BestStudentID  int64
	BestEmbeddingID int64
	BestSimilarity float64
	Match          bool
}

// tieEpsilon is the similarity delta within which two students are
// considered tied; the tie-break then favors the smaller embedding ID
// (the older enrollment).
const tieEpsilon = 1e-6

// Matcher computes the best cosine-similarity match for a query embedding
// against a set of enrolled-student candidate embeddings. It is pure and
// deterministic for a fixed candidate set: no I/O, no clock, no RNG.
type Matcher struct {
	Threshold float64
}

// NewMatcher returns a Matcher using the given match threshold.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{Threshold: threshold}
}

// Match returns the best-scoring student, where per-student score is the
// maximum cosine similarity across that student's candidate embeddings.
// query must already be unit-normalized.
func (m *Matcher) Match(query []float64, candidates []CandidateEmbedding) MatchResult {
	var best MatchResult
	haveBest := false

	for _, c := range candidates {
		sim := cosineSimilarity(query, c.Vector)

		if !haveBest {
			best = MatchResult{BestStudentID: c.StudentID, BestEmbeddingID: c.EmbeddingID, BestSimilarity: sim}
			haveBest = true
			continue
		}

		switch {
		case sim > best.BestSimilarity+tieEpsilon:
			best = MatchResult{BestStudentID: c.StudentID, BestEmbeddingID: c.EmbeddingID, BestSimilarity: sim}
		case math.Abs(sim-best.BestSimilarity) <= tieEpsilon:
			if c.EmbeddingID < best.BestEmbeddingID {
				best = MatchResult{BestStudentID: c.StudentID, BestEmbeddingID: c.EmbeddingID, BestSimilarity: sim}
			}
		}
	}

	best.Match = haveBest && best.BestSimilarity >= m.Threshold
	return best
}

// cosineSimilarity assumes both vectors are unit-normalized, reducing to a
// dot product; it still guards against length mismatch and degenerate
// zero vectors defensively.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// NormalizeVector rescales v to unit length, returning a new slice. A zero
// vector is returned unchanged.
func NormalizeVector(v []float64) []float64 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += x * x
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
