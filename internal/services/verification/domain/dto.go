// Package domain holds DTOs for verification http and service contracts
package domain

import "repocred/internal/core/score"

// VerifyInput asks for a fresh verification of one project's repository
// the url may arrive with or without a scheme; the locator decides validity
type VerifyInput struct {
	ProjectID     string `json:"project_id" validate:"required,min=1,max=64" example:"proj_8fd1"`
	RepositoryURL string `json:"repository_url" validate:"required,min=1,max=500" example:"https://github.com/alice/widget"`
	ClaimedEmail  string `json:"claimed_email" validate:"required,email" example:"alice@example.com"`
	ClaimedHandle string `json:"claimed_handle,omitempty" validate:"omitempty,min=1,max=80" example:"alice"`
}

// VerifyOutput wraps the produced report with its canonical repository
type VerifyOutput struct {
	ProjectID  string       `json:"project_id" example:"proj_8fd1"`
	Repository string       `json:"repository" example:"https://github.com/alice/widget"`
	Report     score.Report `json:"report"`
}
