// Package recognition implements the Recognition Matcher and declares the
// Embedding Provider contract. Embedding extraction itself is external;
// this package only consumes it.
package recognition

import "context"

// Face is one detected face returned by an Embedding Provider.
type Face struct {
	BBox            [4]float64
	Vector          []float64
	DetectionScore  float64
}

// ProviderResult is the Embedding Provider's response for one image.
type ProviderResult struct {
	Faces []Face
}

// Provider is the external embedding extraction contract: given an image,
// return zero or more detected faces with their raw (not yet normalized)
// embedding vectors. Vectors are assumed finite and non-zero; the core
// normalizes them before storing or comparing.
type Provider interface {
	Embed(ctx context.Context, image []byte) (ProviderResult, error)
}

// Outcome codes returned when a Provider call doesn't yield exactly one
// usable face.
const (
	OutcomeNoFace        = "NO_FACE"
	OutcomeMultipleFaces = "MULTIPLE_FACES"
)

// ClassifyFaces maps a ProviderResult to the single usable face, or an
// outcome code when there isn't exactly one.
func ClassifyFaces(result ProviderResult) (Face, string) {
	switch len(result.Faces) {
	case 0:
		return Face{}, OutcomeNoFace
	case 1:
		return result.Faces[0], ""
	default:
		return Face{}, OutcomeMultipleFaces
	}
}
