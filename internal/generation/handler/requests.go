package handler

import (
	"strings"

	dErrors "letwise/pkg/domain-errors"
)

const maxFormFields = 32

// CheckRequest carries raw form values for one checker.
type CheckRequest struct {
	Values    map[string]string `json:"values"`
	SessionID string            `json:"session_id,omitempty"`
}

func (r *CheckRequest) Validate() error {
	if r.Values == nil {
		r.Values = map[string]string{}
	}
	if len(r.Values) > maxFormFields {
		return dErrors.New(dErrors.CodeBadRequest, "too many form fields")
	}
	r.SessionID = strings.TrimSpace(r.SessionID)
	return nil
}
