// Package optimize proposes profile changes tailored to a job posting. The
// collaborator only produces a patch; applying it goes through the store's
// normal override path, so its output is never trusted with direct state
// access.
package optimize

import (
	"context"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Options tune a single optimization request.
type Options struct {
	// Model overrides the default model name.
	Model string
	// Emphasis is an optional free-form instruction, e.g. "emphasize
	// leadership" or "keep bullets under 20 words".
	Emphasis string
}

// Collaborator is an abstraction over optimization providers.
type Collaborator interface {
	// Optimize proposes a patch tailoring the profile to the job text. The
	// returned patch only references items that exist in the data bundle.
	Optimize(ctx context.Context, profile types.Profile, data types.DataBundle, jobText string, opts Options) (*types.ProfilePatch, error)
	// Model returns the model name a request with these options would use.
	Model(opts Options) string
	// Close releases any resources held by the collaborator.
	Close() error
}
