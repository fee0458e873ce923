package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
)

type stubRegistry struct {
	group    *dhis2.OptionGroup
	stage    *dhis2.ProgramStage
	groupErr error
	stageErr error
	calls    int
}

func (s *stubRegistry) RiskCountries(context.Context) (*dhis2.OptionGroup, error) {
	s.calls++
	return s.group, s.groupErr
}

func (s *stubRegistry) ClinicalStage(context.Context) (*dhis2.ProgramStage, error) {
	return s.stage, s.stageErr
}

func validStub() *stubRegistry {
	return &stubRegistry{
		group: &dhis2.OptionGroup{
			Name: "Risk Countries",
			Options: []dhis2.Option{
				{Name: "Uganda", Code: "UG", SortOrder: 2},
				{Name: "Kenya", Code: "KE", SortOrder: 1},
			},
		},
		stage: &dhis2.ProgramStage{
			Name: "Clinical Assessment",
			ProgramStageDataElements: []dhis2.ProgramStageDataElement{
				{
					DataElement: dhis2.DataElement{ID: "q2", FormName: "Cough", ValueType: "BOOLEAN"},
					SortOrder:   2,
					Compulsory:  false,
				},
				{
					DataElement: dhis2.DataElement{ID: dhis2.ElemClassification, FormName: "Health Status Flag"},
					SortOrder:   99,
				},
				{
					DataElement: dhis2.DataElement{
						ID: "q1", FormName: "Fever", ValueType: "TEXT",
						OptionSet: &dhis2.OptionSet{Options: []dhis2.Option{
							{Name: "Yes", Code: "YES"},
							{Name: "No", Code: "NO"},
						}},
					},
					SortOrder:  1,
					Compulsory: true,
				},
			},
		},
	}
}

func TestService_LoadMapsAndSorts(t *testing.T) {
	svc := NewService(validStub())

	meta, err := svc.Load(context.Background())
	require.NoError(t, err)

	// Risk countries sorted by sortOrder.
	require.Len(t, meta.RiskCountries, 2)
	assert.Equal(t, Option{Label: "Kenya", Value: "KE"}, meta.RiskCountries[0])
	assert.Equal(t, Option{Label: "Uganda", Value: "UG"}, meta.RiskCountries[1])

	// Clinical questions sorted, classification flag filtered out.
	require.Len(t, meta.ClinicalQuestions, 2)
	assert.Equal(t, "q1", meta.ClinicalQuestions[0].ID)
	assert.True(t, meta.ClinicalQuestions[0].Compulsory)
	assert.Len(t, meta.ClinicalQuestions[0].Options, 2)
	assert.Equal(t, "q2", meta.ClinicalQuestions[1].ID)
}

func TestService_LoadPropagatesRegistryError(t *testing.T) {
	stub := validStub()
	stub.stageErr = errors.New("registry down")
	svc := NewService(stub)

	_, err := svc.Load(context.Background())
	require.Error(t, err)
}

func TestService_QuestionLookup(t *testing.T) {
	svc := NewService(validStub())
	meta, err := svc.Load(context.Background())
	require.NoError(t, err)

	q, ok := meta.Question("q1")
	require.True(t, ok)
	assert.Equal(t, "Fever", q.Label)

	_, ok = meta.Question("unknown")
	assert.False(t, ok)
}

func TestService_FallsBackToIDWhenFormNameMissing(t *testing.T) {
	stub := validStub()
	stub.stage.ProgramStageDataElements[0].DataElement.FormName = ""
	svc := NewService(stub)

	meta, err := svc.Load(context.Background())
	require.NoError(t, err)

	q, ok := meta.Question("q2")
	require.True(t, ok)
	assert.Equal(t, "q2", q.Label)
}

func TestNewService_PanicsWithoutRegistry(t *testing.T) {
	assert.Panics(t, func() { NewService(nil) })
}
