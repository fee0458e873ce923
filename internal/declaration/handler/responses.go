package handler

import (
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
)

// SessionResponse is the wire shape of a wizard session.
type SessionResponse struct {
	ID          string                  `json:"id"`
	Step        string                  `json:"step"`
	Declaration declaration.Declaration `json:"declaration"`
	Editing     bool                    `json:"editing"`
	Result      *declaration.Submission `json:"result,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

func toSessionResponse(s *declaration.Session) *SessionResponse {
	return &SessionResponse{
		ID:          s.ID,
		Step:        s.Step.String(),
		Declaration: s.Declaration,
		Editing:     s.Editing != nil,
		Result:      s.Result,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// MetadataResponse bundles every picklist the form needs, static and dynamic.
type MetadataResponse struct {
	Sexes             []reference.Option           `json:"sexes"`
	Purposes          []reference.Option           `json:"purposes"`
	Airlines          []reference.Option           `json:"airlines"`
	Countries         []reference.Option           `json:"countries"`
	RiskCountries     []reference.Option           `json:"riskCountries"`
	ClinicalQuestions []reference.ClinicalQuestion `json:"clinicalQuestions"`
}

func toMetadataResponse(meta *reference.Metadata) *MetadataResponse {
	return &MetadataResponse{
		Sexes:             reference.Sexes,
		Purposes:          reference.Purposes,
		Airlines:          reference.Airlines,
		Countries:         reference.Countries,
		RiskCountries:     meta.RiskCountries,
		ClinicalQuestions: meta.ClinicalQuestions,
	}
}
