package types

import "github.com/go-playground/validator/v10"

// CreateProfileRequest is the request to create a new, empty profile.
type CreateProfileRequest struct {
	Name     string   `json:"name" validate:"required,min=1"`
	Template Template `json:"template,omitempty" validate:"omitempty,oneof=classic compact"`
}

// ReorderRequest moves the id at FromIndex to ToIndex within one category's
// id list.
type ReorderRequest struct {
	Category  string `json:"category" validate:"required,oneof=experience project skill education"`
	FromIndex int    `json:"from_index" validate:"min=0"`
	ToIndex   int    `json:"to_index" validate:"min=0"`
}

// OptimizeRequest asks the external collaborator for a profile patch tailored
// to a job posting.
type OptimizeRequest struct {
	JobText  string `json:"job_text" validate:"required,min=1"`
	Emphasis string `json:"emphasis,omitempty"`
	Model    string `json:"model,omitempty"`
}

// RestoreRequest carries a backup envelope produced by a prior backup call.
type RestoreRequest struct {
	Snapshot string `json:"snapshot" validate:"required"`
}

// MigrateRequest names the destination persistence backend.
type MigrateRequest struct {
	To string `json:"to" validate:"required,oneof=local database memory"`
}

// ExtractPostingRequest carries raw posting HTML forwarded by the browser
// extension.
type ExtractPostingRequest struct {
	HTML      string `json:"html" validate:"required"`
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`
}

// Validate validates the CreateProfileRequest using the validator.
func (r *CreateProfileRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ReorderRequest using the validator.
func (r *ReorderRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the OptimizeRequest using the validator.
func (r *OptimizeRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the RestoreRequest using the validator.
func (r *RestoreRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the MigrateRequest using the validator.
func (r *MigrateRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ExtractPostingRequest using the validator.
func (r *ExtractPostingRequest) Validate() error {
	return validator.New().Struct(r)
}
