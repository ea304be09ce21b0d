package handler

import (
	"letwise/internal/facts"
	"letwise/internal/generation/service"
	"letwise/internal/rules"
)

const fallbackAuthorityMessage = "We could not match this postcode to a local authority. Contact your local authority to confirm which rules apply."

// AuthorityResponse is the body of a postcode lookup. A miss is a 200 with
// found=false and a fallback message.
type AuthorityResponse struct {
	Postcode     string `json:"postcode"`
	AreaCode     string `json:"area_code"`
	Found        bool   `json:"found"`
	Name         string `json:"name,omitempty"`
	Website      string `json:"website,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Message      string `json:"message,omitempty"`
}

func toAuthorityResponse(a service.Authority) AuthorityResponse {
	resp := AuthorityResponse{Postcode: a.Postcode, AreaCode: a.AreaCode, Found: a.Found}
	if !a.Found {
		resp.Message = fallbackAuthorityMessage
		return resp
	}
	resp.Name = a.Area.Authority.Name
	resp.Website = a.Area.Authority.Website
	resp.Jurisdiction = string(a.Area.Authority.Jurisdiction)
	return resp
}

// RuleSetSummary names the rules a result was judged against.
type RuleSetSummary struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Title   string `json:"title"`
}

// EvaluationResponse is the body of a successful evaluation.
type EvaluationResponse struct {
	Topic        facts.Topic                `json:"topic"`
	Jurisdiction string                     `json:"jurisdiction"`
	RuleSet      RuleSetSummary             `json:"rule_set"`
	Result       rules.ClassificationResult `json:"result"`
	Authority    *AuthorityResponse         `json:"authority,omitempty"`
}

func toEvaluationResponse(e *service.Evaluation) EvaluationResponse {
	resp := EvaluationResponse{
		Topic:        e.Facts.Topic,
		Jurisdiction: string(e.Facts.Jurisdiction),
		RuleSet:      RuleSetSummary{ID: e.RuleSet.ID, Version: e.RuleSet.Version, Title: e.RuleSet.Title},
		Result:       e.Result,
	}
	if e.Facts.Postcode != "" {
		a := toAuthorityResponse(service.Authority{
			Postcode: e.Facts.Postcode,
			AreaCode: e.Facts.AreaCode,
			Found:    e.AreaFound,
			Area:     e.Area,
		})
		resp.Authority = &a
	}
	return resp
}

// IncompleteResponse is the 422 body for a form that cannot be submitted.
type IncompleteResponse struct {
	Error            string        `json:"error"`
	ErrorDescription string        `json:"error_description"`
	Issues           []facts.Issue `json:"issues"`
}
