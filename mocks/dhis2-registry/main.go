// Mock DHIS2 tracker registry for local development and e2e tests. It
// implements the slice of the tracker API the declaration service talks to:
// tracked entity search, identifier reservation, synchronous tracker
// imports, enrollment read-back and picklist metadata.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort      = "9301"
	defaultLatencyMs = "50"
)

// Program identifiers mirrored from the staging instance.
const (
	programID       = "pam2gg32GIX"
	travelStageID   = "ECqXBCJdIJW"
	clinicalStageID = "nqE0Yrh0XvW"
	orgUnitID       = "P9dOOh865eF"
	tetID           = "NfwwxcCXeKS"

	attrFirstName = "ur1JM6CZeSb"
	attrLastName  = "vUacdogzWI6"
	attrPassport  = "kDWurLVuVZw"

	elemClassification = "cGSuTAbYhkM"
	riskGroupID        = "m0EgeLz1Jzc"

	// Clinical question data elements served in the program stage metadata.
	elemFever    = "x1FeverDE0q"
	elemCough    = "x2CoughDE0q"
	elemContact  = "x3ContactDq"
	elemSeverity = "x4SeverityQ"
)

type Attribute struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

type DataValue struct {
	DataElement string `json:"dataElement"`
	Value       string `json:"value"`
}

type Event struct {
	Event        string      `json:"event,omitempty"`
	ProgramStage string      `json:"programStage,omitempty"`
	Program      string      `json:"program,omitempty"`
	OrgUnit      string      `json:"orgUnit,omitempty"`
	Status       string      `json:"status,omitempty"`
	OccurredAt   string      `json:"occurredAt,omitempty"`
	CompletedAt  string      `json:"completedAt,omitempty"`
	DataValues   []DataValue `json:"dataValues,omitempty"`
}

type Enrollment struct {
	Enrollment    string  `json:"enrollment,omitempty"`
	TrackedEntity string  `json:"trackedEntity,omitempty"`
	Program       string  `json:"program,omitempty"`
	Status        string  `json:"status,omitempty"`
	OrgUnit       string  `json:"orgUnit,omitempty"`
	EnrolledAt    string  `json:"enrolledAt,omitempty"`
	Events        []Event `json:"events,omitempty"`
}

type TrackedEntity struct {
	TrackedEntity     string       `json:"trackedEntity,omitempty"`
	TrackedEntityType string       `json:"trackedEntityType,omitempty"`
	OrgUnit           string       `json:"orgUnit,omitempty"`
	Attributes        []Attribute  `json:"attributes,omitempty"`
	Enrollments       []Enrollment `json:"enrollments,omitempty"`
}

type TrackerPayload struct {
	TrackedEntities []TrackedEntity `json:"trackedEntities"`
}

// registry is the in-memory tracker store.
type registry struct {
	mu       sync.RWMutex
	entities map[string]*TrackedEntity
	idSeq    int
}

var (
	apiKey    = getEnv("API_KEY", "")
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
	store     = &registry{entities: make(map[string]*TrackedEntity)}
)

func main() {
	port := getEnv("PORT", defaultPort)
	seedTravelers()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/system/id", authed(handleReserveIDs))
	mux.HandleFunc("GET /api/40/tracker/trackedEntities", authed(handleSearch))
	mux.HandleFunc("GET /api/40/tracker/trackedEntities/{uid}", authed(handleTrackedEntity))
	mux.HandleFunc("POST /api/tracker", authed(handleTrackerImport))
	mux.HandleFunc("GET /api/tracker/enrollments/{uid}", authed(handleEnrollment))
	mux.HandleFunc("GET /api/optionGroups/{uid}", authed(handleOptionGroup))
	mux.HandleFunc("GET /api/programStages/{uid}", authed(handleProgramStage))

	log.Printf("🏥 Mock DHIS2 registry starting on port %s", port)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)
	if apiKey != "" {
		log.Printf("🔑 API token required")
	}

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "dhis2-registry",
		"version": "1.0.0",
	})
}

// authed wraps a handler with latency simulation and token validation.
func authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		if apiKey != "" && r.Header.Get("Authorization") != "ApiToken "+apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"status":  "ERROR",
				"message": "invalid API token",
			})
			return
		}
		next(w, r)
	}
}

// handleReserveIDs mimics the registry's identifier generator. The magic
// limit 99 provokes a short allocation so tests can exercise that path.
func handleReserveIDs(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 1
	}
	granted := limit
	if limit == 99 {
		granted = 1
	}

	store.mu.Lock()
	codes := make([]string, 0, granted)
	for range granted {
		store.idSeq++
		codes = append(codes, fmt.Sprintf("Mck%08d", store.idSeq))
	}
	store.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string][]string{"codes": codes})
}

// handleSearch filters stored entities with tracker filter expressions
// (attribute:op:value with op eq or ilike).
func handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("program") != programID {
		writeJSON(w, http.StatusOK, map[string]any{"instances": []TrackedEntity{}})
		return
	}
	withAttributes := strings.Contains(r.URL.Query().Get("fields"), "attributes")

	store.mu.RLock()
	defer store.mu.RUnlock()

	instances := make([]TrackedEntity, 0)
	for _, te := range store.entities {
		if matchesFilters(te, r.URL.Query()["filter"]) {
			instances = append(instances, projectEntity(te, withAttributes))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"instances": instances})
}

func matchesFilters(te *TrackedEntity, filters []string) bool {
	attrs := make(map[string]string, len(te.Attributes))
	for _, a := range te.Attributes {
		attrs[a.Attribute] = a.Value
	}
	for _, f := range filters {
		parts := strings.SplitN(f, ":", 3)
		if len(parts) != 3 {
			return false
		}
		have, want := attrs[parts[0]], parts[2]
		switch parts[1] {
		case "eq":
			if have != want {
				return false
			}
		case "ilike":
			if !strings.Contains(strings.ToLower(have), strings.ToLower(want)) {
				return false
			}
		default:
			return false
		}
	}
	return len(filters) > 0
}

// projectEntity reduces a stored record to the search field selection.
func projectEntity(te *TrackedEntity, withAttributes bool) TrackedEntity {
	out := TrackedEntity{
		TrackedEntity: te.TrackedEntity,
		OrgUnit:       te.OrgUnit,
	}
	if withAttributes {
		out.Attributes = te.Attributes
	}
	for _, enr := range te.Enrollments {
		out.Enrollments = append(out.Enrollments, Enrollment{
			Enrollment: enr.Enrollment,
			EnrolledAt: enr.EnrolledAt,
		})
	}
	return out
}

func handleTrackedEntity(w http.ResponseWriter, r *http.Request) {
	store.mu.RLock()
	te, ok := store.entities[r.PathValue("uid")]
	store.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "tracked entity not found")
		return
	}
	writeJSON(w, http.StatusOK, te)
}

// handleTrackerImport accepts a synchronous tracker import and runs the
// classification program rule before persisting.
func handleTrackerImport(w http.ResponseWriter, r *http.Request) {
	var payload TrackerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed tracker payload")
		return
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range payload.TrackedEntities {
		te := payload.TrackedEntities[i]
		if te.TrackedEntity == "" {
			writeError(w, http.StatusConflict, "trackedEntity identifier is required")
			return
		}
		for ei := range te.Enrollments {
			classify(&te.Enrollments[ei])
		}
		stored := te
		store.entities[te.TrackedEntity] = &stored
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "OK",
		"stats":  map[string]int{"created": len(payload.TrackedEntities)},
	})
}

// classify applies the server-side program rule: any positive clinical
// answer or a SEVERE severity turns the declaration YELLOW.
func classify(enr *Enrollment) {
	for i := range enr.Events {
		ev := &enr.Events[i]
		if ev.ProgramStage != clinicalStageID {
			continue
		}
		classification := "GREEN"
		for _, dv := range ev.DataValues {
			if dv.DataElement == elemClassification {
				continue
			}
			if dv.Value == "true" || dv.Value == "SEVERE" {
				classification = "YELLOW"
			}
		}
		ev.DataValues = append(ev.DataValues, DataValue{
			DataElement: elemClassification,
			Value:       classification,
		})
	}
}

func handleEnrollment(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, te := range store.entities {
		for _, enr := range te.Enrollments {
			if enr.Enrollment == uid {
				out := enr
				out.TrackedEntity = te.TrackedEntity
				writeJSON(w, http.StatusOK, out)
				return
			}
		}
	}
	writeError(w, http.StatusNotFound, "enrollment not found")
}

func handleOptionGroup(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("uid") != riskGroupID {
		writeError(w, http.StatusNotFound, "option group not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "Enhanced screening countries",
		"options": []map[string]any{
			{"name": "Democratic Republic of the Congo", "code": "CD", "sortOrder": 1},
			{"name": "Uganda", "code": "UG", "sortOrder": 2},
			{"name": "South Sudan", "code": "SS", "sortOrder": 3},
		},
	})
}

func handleProgramStage(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("uid") != clinicalStageID {
		writeError(w, http.StatusNotFound, "program stage not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name": "Clinical screening",
		"programStageDataElements": []map[string]any{
			{
				"dataElement": map[string]any{
					"id": elemFever, "formName": "Fever in the last 72 hours", "valueType": "BOOLEAN",
				},
				"sortOrder": 1, "compulsory": true,
			},
			{
				"dataElement": map[string]any{
					"id": elemCough, "formName": "Persistent cough", "valueType": "BOOLEAN",
				},
				"sortOrder": 2, "compulsory": true,
			},
			{
				"dataElement": map[string]any{
					"id": elemContact, "formName": "Contact with a confirmed case", "valueType": "TRUE_ONLY",
				},
				"sortOrder": 3, "compulsory": false,
			},
			{
				"dataElement": map[string]any{
					"id": elemSeverity, "formName": "Symptom severity", "valueType": "TEXT",
					"optionSet": map[string]any{
						"options": []map[string]any{
							{"name": "Mild", "code": "MILD"},
							{"name": "Moderate", "code": "MODERATE"},
							{"name": "Severe", "code": "SEVERE"},
						},
					},
				},
				"sortOrder": 4, "compulsory": false,
			},
		},
	})
}

// seedTravelers installs known records so e2e runs can exercise the
// returning-traveler paths without a prior submission.
func seedTravelers() {
	store.mu.Lock()
	defer store.mu.Unlock()

	// Enrolled repeat traveler.
	store.entities["SeedRepeat1"] = &TrackedEntity{
		TrackedEntity:     "SeedRepeat1",
		TrackedEntityType: tetID,
		OrgUnit:           orgUnitID,
		Attributes: []Attribute{
			{Attribute: attrFirstName, Value: "Hana"},
			{Attribute: attrLastName, Value: "Girma"},
			{Attribute: attrPassport, Value: "EP9000001"},
		},
		Enrollments: []Enrollment{{
			Enrollment: "SeedEnrol01",
			Program:    programID,
			Status:     "ACTIVE",
			OrgUnit:    orgUnitID,
			EnrolledAt: "2026-01-15",
			Events: []Event{
				{
					Event:        "SeedTravel1",
					ProgramStage: travelStageID,
					Status:       "COMPLETED",
					OccurredAt:   "2026-01-15",
					CompletedAt:  "2026-01-15",
					DataValues:   []DataValue{{DataElement: "BXGTya98TLD", Value: "TOURISM"}},
				},
				{
					Event:        "SeedClinic1",
					ProgramStage: clinicalStageID,
					Status:       "COMPLETED",
					OccurredAt:   "2026-01-15",
					CompletedAt:  "2026-01-15",
					DataValues: []DataValue{
						{DataElement: elemFever, Value: "false"},
						{DataElement: elemClassification, Value: "GREEN"},
					},
				},
			},
		}},
	}

	// Known person who has never declared.
	store.entities["SeedNoEnro1"] = &TrackedEntity{
		TrackedEntity:     "SeedNoEnro1",
		TrackedEntityType: tetID,
		OrgUnit:           orgUnitID,
		Attributes: []Attribute{
			{Attribute: attrFirstName, Value: "Dawit"},
			{Attribute: attrLastName, Value: "Lemma"},
			{Attribute: attrPassport, Value: "EP9000002"},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"httpStatusCode": status,
		"status":         "ERROR",
		"message":        message,
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
