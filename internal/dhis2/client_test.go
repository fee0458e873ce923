package dhis2

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

type ClientSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) TestSearchSendsTokenAndFilters() {
	var gotAuth string
	var gotFilters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFilters = r.URL.Query()["filter"]
		json.NewEncoder(w).Encode(searchResponse{Instances: []TrackedEntity{
			{TrackedEntity: "Tei0000001"},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token")
	entities, err := client.Search(context.Background(),
		[]string{Filter(AttrPassport, "eq", "EP1234567")}, false)

	s.Require().NoError(err)
	s.Require().Len(entities, 1)
	s.Equal("Tei0000001", entities[0].TrackedEntity)
	s.Equal("ApiToken secret-token", gotAuth)
	s.Require().Len(gotFilters, 1)
	s.Equal("kDWurLVuVZw:eq:EP1234567", gotFilters[0])
}

func (s *ClientSuite) TestReserveIDs() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("4", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(idResponse{Codes: []string{"a", "b", "c", "d"}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	codes, err := client.ReserveIDs(context.Background(), 4)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c", "d"}, codes)
}

func (s *ClientSuite) TestUpsertRejectionCarriesDiagnostics() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"E1022 tracked entity type mismatch"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	err := client.Upsert(context.Background(), TrackerPayload{})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRegistryRejected))
	s.Contains(err.Error(), "E1022")
}

func (s *ClientSuite) TestUpsertServerErrorIsUnavailable() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	err := client.Upsert(context.Background(), TrackerPayload{})

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRegistryUnavailable))
}

func (s *ClientSuite) TestNotFoundMapsToDomainCode() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	_, err := client.TrackedEntity(context.Background(), "missing")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ClientSuite) TestEnrollmentReadBack() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Enrollment{
			Enrollment: "Enr0000001",
			Events: []Event{
				{ProgramStage: ClinicalStageID, DataValues: []DataValue{
					{DataElement: ElemClassification, Value: "YELLOW"},
				}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	enr, err := client.Enrollment(context.Background(), "Enr0000001")
	s.Require().NoError(err)
	s.Require().Len(enr.Events, 1)
	s.Equal("YELLOW", enr.Events[0].DataValues[0].Value)
}

func (s *ClientSuite) TestClinicalStageMetadata() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ProgramStage{
			Name: "Clinical Assessment",
			ProgramStageDataElements: []ProgramStageDataElement{
				{
					DataElement: DataElement{ID: "q1", FormName: "Fever", ValueType: "BOOLEAN"},
					SortOrder:   1,
					Compulsory:  true,
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t")
	stage, err := client.ClinicalStage(context.Background())
	s.Require().NoError(err)
	s.Equal("Clinical Assessment", stage.Name)
	s.Require().Len(stage.ProgramStageDataElements, 1)
	s.True(stage.ProgramStageDataElements[0].Compulsory)
}

func (s *ClientSuite) TestRiskCountriesWithConfiguredClient() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(OptionGroup{
			Name: "Risk Countries",
			Options: []Option{
				{Name: "Kenya", Code: "KE", SortOrder: 1},
				{Name: "Uganda", Code: "UG", SortOrder: 2},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t",
		WithHTTPClient(srv.Client()),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	group, err := client.RiskCountries(context.Background())
	s.Require().NoError(err)
	s.Equal([]Option{
		{Name: "Kenya", Code: "KE", SortOrder: 1},
		{Name: "Uganda", Code: "UG", SortOrder: 2},
	}, group.Options)
}

func (s *ClientSuite) TestAttributeMap() {
	te := TrackedEntity{Attributes: []Attribute{
		{Attribute: AttrFirstName, Value: "Abebe"},
		{Attribute: AttrLastName, Value: "Kebede"},
	}}
	m := te.AttributeMap()
	s.Equal("Abebe", m[AttrFirstName])
	s.Equal("Kebede", m[AttrLastName])
}
