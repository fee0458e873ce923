// Package handler exposes the declaration workflow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/metrics"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/middleware"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/httputil"
)

// Service defines the workflow operations the handler exposes.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Start(ctx context.Context) (*declaration.Session, error)
	Get(ctx context.Context, id string) (*declaration.Session, error)
	SavePersonal(ctx context.Context, id string, p declaration.Personal) (*declaration.Session, error)
	SaveTravel(ctx context.Context, id string, t declaration.Travel) (*declaration.Session, error)
	SaveClinical(ctx context.Context, id string, c declaration.Clinical) (*declaration.Session, error)
	Back(ctx context.Context, id string) (*declaration.Session, error)
	Cancel(ctx context.Context, id string) error
	Submit(ctx context.Context, id string, consent bool) (*declaration.Session, error)
	Lookup(ctx context.Context, token string) (*declaration.Session, error)
	LookupByPassport(ctx context.Context, passport string) (*declaration.Session, error)
	Verify(ctx context.Context, lastName, passport string) (*declaration.VerificationResult, error)
}

// MetadataLoader provides the dynamic form picklists.
type MetadataLoader interface {
	Load(ctx context.Context) (*reference.Metadata, error)
}

type Handler struct {
	service  Service
	metadata MetadataLoader
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates the handler. Metrics may be nil.
func New(service Service, metadata MetadataLoader, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metadata: metadata, logger: logger, metrics: m}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/declarations", h.HandleStart)
	r.Post("/api/declarations/lookup", h.HandleLookup)
	r.Get("/api/declarations/{id}", h.HandleGet)
	r.Delete("/api/declarations/{id}", h.HandleCancel)
	r.Put("/api/declarations/{id}/personal", h.HandleSavePersonal)
	r.Put("/api/declarations/{id}/travel", h.HandleSaveTravel)
	r.Put("/api/declarations/{id}/clinical", h.HandleSaveClinical)
	r.Post("/api/declarations/{id}/back", h.HandleBack)
	r.Post("/api/declarations/{id}/submit", h.HandleSubmit)
	r.Post("/api/verifications", h.HandleVerify)
	r.Get("/api/reference/metadata", h.HandleMetadata)
}

func (h *Handler) observe(endpoint string, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveEndpointLatency(endpoint, time.Since(start).Seconds())
	}
}

// HandleStart opens a new declaration session.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	defer h.observe("start", time.Now())
	ctx := r.Context()

	session, err := h.service.Start(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "start declaration failed",
			"error", err, "request_id", middleware.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(session))
}

// HandleGet returns the current wizard state.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	defer h.observe("get", time.Now())
	ctx := r.Context()

	session, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleSavePersonal validates and stores the identity step.
func (h *Handler) HandleSavePersonal(w http.ResponseWriter, r *http.Request) {
	defer h.observe("save_personal", time.Now())
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PersonalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.SavePersonal(ctx, chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleSaveTravel validates and stores the journey step.
func (h *Handler) HandleSaveTravel(w http.ResponseWriter, r *http.Request) {
	defer h.observe("save_travel", time.Now())
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TravelRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.SaveTravel(ctx, chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleSaveClinical validates and stores the screening step.
func (h *Handler) HandleSaveClinical(w http.ResponseWriter, r *http.Request) {
	defer h.observe("save_clinical", time.Now())
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ClinicalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	session, err := h.service.SaveClinical(ctx, chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleBack reopens the previous step.
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	defer h.observe("back", time.Now())
	ctx := r.Context()

	session, err := h.service.Back(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleCancel discards a session.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	defer h.observe("cancel", time.Now())
	ctx := r.Context()

	if err := h.service.Cancel(ctx, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmit submits the completed declaration to the health registry. The
// body is optional; an absent or negative consent flag is refused by the
// service with a consent error rather than a decode error.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	defer h.observe("submit", time.Now())
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	session, err := h.service.Submit(ctx, chi.URLParam(r, "id"), req.Consent)
	if err != nil {
		h.logger.ErrorContext(ctx, "submit declaration failed",
			"error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleLookup opens an edit session from a declaration token, or from a
// passport number when the traveler lost the token.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	defer h.observe("lookup", time.Now())
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LookupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var session *declaration.Session
	var err error
	if req.Token != "" {
		session, err = h.service.Lookup(ctx, req.Token)
	} else {
		session, err = h.service.LookupByPassport(ctx, req.Passport)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(session))
}

// HandleVerify checks a traveler's latest classification.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	defer h.observe("verify", time.Now())
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Verify(ctx, req.LastName, req.Passport)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleMetadata serves the form picklists: the static lists plus the
// registry's risk countries and clinical questions.
func (h *Handler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	defer h.observe("metadata", time.Now())
	ctx := r.Context()

	meta, err := h.metadata.Load(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load metadata failed",
			"error", err, "request_id", middleware.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMetadataResponse(meta))
}
