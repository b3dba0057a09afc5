// Package enrollment implements the Enrollment Service: it ingests
// captured frames for a student, filters them by quality, scores and
// deduplicates the resulting embeddings, and attaches the survivors to
// the student's roster.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/moto-nrw/project-phoenix/models/recognition"
	recognitionSvc "github.com/moto-nrw/project-phoenix/services/recognition"
)

// Sentinel errors.
var (
	// ErrInsufficientQuality is returned when fewer than K_MIN embeddings
	// survive quality filtering and deduplication.
	ErrInsufficientQuality = errors.New("insufficient quality: not enough embeddings survived")
)

// Error wraps enrollment-service failures with the operation that failed,
// mirroring services/active's ActiveError convention.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("enrollment: %s: unknown error", e.Op)
	}
	return fmt.Sprintf("enrollment: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// QualityGates configures the per-frame acceptance thresholds applied
// before scoring.
type QualityGates struct {
	MinFaceSizeRatio  float64 // detected face bbox area / image area
	MaxBlur           float64 // lower sharpness than this is rejected
	MaxPoseDeviation  float64 // degrees off-frontal
}

// ScoreWeights configures the per-frame scoring formula:
// score = α·detection_score + β·sharpness + γ·frontality.
type ScoreWeights struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// FrameAssessment is the quality signal for one captured frame, computed
// by an external quality assessor (face-size/blur/pose are out of scope
// for this core the same way embedding extraction is; this package only
// consumes the assessment).
type FrameAssessment struct {
	FaceSizeRatio float64
	Sharpness     float64
	Frontality    float64
}

// QualityAssessor computes a FrameAssessment for a raw captured frame.
type QualityAssessor interface {
	Assess(ctx context.Context, frame []byte) (FrameAssessment, error)
}

// Config bundles the tunables the Enrollment Service needs, normally
// backed by the Setting store (enrollment_k_min, enrollment_k_max).
type Config struct {
	Gates   QualityGates
	Weights ScoreWeights
	KMin    int
	KMax    int
	// DuplicateSimilarity is the cosine-similarity threshold above which
	// two candidate embeddings are treated as near-duplicates.
	DuplicateSimilarity float64
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		Gates: QualityGates{
			MinFaceSizeRatio: 0.05,
			MaxBlur:          0.35,
			MaxPoseDeviation: 30,
		},
		Weights:             ScoreWeights{Alpha: 0.5, Beta: 0.3, Gamma: 0.2},
		KMin:                5,
		KMax:                15,
		DuplicateSimilarity: 0.995,
	}
}

// Service implements the Enrollment Service.
type Service struct {
	provider recognitionSvc.Provider
	assessor QualityAssessor
	cfg      Config
}

// NewService constructs an Enrollment Service.
func NewService(provider recognitionSvc.Provider, assessor QualityAssessor, cfg Config) *Service {
	return &Service{provider: provider, assessor: assessor, cfg: cfg}
}

type scoredEmbedding struct {
	vector []float64
	score  float64
}

// Enroll runs the full pipeline over an ordered list of captured frames
// and returns the embeddings that should be attached to the student. It
// does not persist them; callers attach via their Store/repository.
func (s *Service) Enroll(ctx context.Context, studentID int64, frames [][]byte) ([]*recognition.Embedding, error) {
	if studentID <= 0 {
		return nil, &Error{Op: "enroll", Err: errors.New("student ID is required")}
	}
	if len(frames) == 0 {
		return nil, &Error{Op: "enroll", Err: errors.New("at least one frame is required")}
	}

	var survivors []scoredEmbedding

	for _, frame := range frames {
		result, err := s.provider.Embed(ctx, frame)
		if err != nil {
			continue // a single failed frame does not abort enrollment
		}
		face, outcome := recognitionSvc.ClassifyFaces(result)
		if outcome != "" {
			continue // NO_FACE or MULTIPLE_FACES: drop the frame
		}

		assessment, err := s.assessor.Assess(ctx, frame)
		if err != nil {
			continue
		}
		if !s.passesGates(assessment) {
			continue
		}

		score := s.cfg.Weights.Alpha*face.DetectionScore +
			s.cfg.Weights.Beta*assessment.Sharpness +
			s.cfg.Weights.Gamma*assessment.Frontality

		survivors = append(survivors, scoredEmbedding{
			vector: recognitionSvc.NormalizeVector(face.Vector),
			score:  score,
		})
	}

	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].score > survivors[j].score
	})

	deduped := dedupeNearDuplicates(survivors, s.cfg.DuplicateSimilarity)

	kMax := s.cfg.KMax
	if kMax <= 0 {
		kMax = len(deduped)
	}
	if len(deduped) > kMax {
		deduped = deduped[:kMax]
	}

	kMin := s.cfg.KMin
	if len(deduped) < kMin {
		return nil, &Error{Op: "enroll", Err: ErrInsufficientQuality}
	}

	embeddings := make([]*recognition.Embedding, 0, len(deduped))
	for _, d := range deduped {
		embeddings = append(embeddings, &recognition.Embedding{
			StudentID:    studentID,
			Vector:       d.vector,
			QualityScore: d.score,
		})
	}
	return embeddings, nil
}

func (s *Service) passesGates(a FrameAssessment) bool {
	if a.FaceSizeRatio < s.cfg.Gates.MinFaceSizeRatio {
		return false
	}
	if a.Sharpness < s.cfg.Gates.MaxBlur {
		return false
	}
	if a.Frontality < 0 {
		return false
	}
	return true
}

// dedupeNearDuplicates greedily keeps the highest-scored embedding from
// each cluster of near-duplicates (cosine similarity above threshold),
// preserving the input's score-descending order.
func dedupeNearDuplicates(candidates []scoredEmbedding, threshold float64) []scoredEmbedding {
	var kept []scoredEmbedding
	for _, c := range candidates {
		isDuplicate := false
		for _, k := range kept {
			if cosineSim(c.vector, k.vector) > threshold {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

func cosineSim(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
