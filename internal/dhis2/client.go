// Package dhis2 implements a typed client for the national health registry's
// tracker API. It covers the small slice of the API the declaration workflow
// needs: tracked entity search, identifier reservation, tracker upserts,
// enrollment read-back and picklist metadata.
package dhis2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2/tracer"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/metrics"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the health registry. It authenticates every request with a
// personal access token and never retries writes.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(c HTTPDoer) ClientOption {
	return func(cl *Client) { cl.client = c }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

// WithMetrics enables request metrics.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(cl *Client) { cl.metrics = m }
}

// WithTracer enables distributed tracing of registry calls.
func WithTracer(t tracer.Tracer) ClientOption {
	return func(cl *Client) { cl.tracer = t }
}

// NewClient creates a registry client for the given base URL. The base URL
// must include the /api suffix of the registry instance.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 15 * time.Second}
	}
	if c.tracer == nil {
		c.tracer = tracer.NewNoop()
	}
	return c
}

// searchFields is the field selection used for dedup search: identifiers
// only, no attribute values.
const searchFields = "enrollments[enrollment,enrolledAt],trackedEntity,orgUnit"

// searchFieldsWithAttributes additionally pulls attribute values, used by the
// verification lookup.
const searchFieldsWithAttributes = "enrollments[enrollment,enrolledAt],trackedEntity,orgUnit,attributes[attribute,value]"

// Filter builds a tracker filter expression.
func Filter(attribute, op, value string) string {
	return attribute + ":" + op + ":" + value
}

// Search queries tracked entities in the declaration program. Filters use
// tracker filter syntax, e.g. "kDWurLVuVZw:eq:EP1234567". The first page is
// returned; the workflow only ever uses the first match.
func (c *Client) Search(ctx context.Context, filters []string, withAttributes bool) ([]TrackedEntity, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanSearch,
		tracer.Int64(tracer.AttrFilterCount, int64(len(filters))),
	)
	var err error
	defer func() { span.End(err) }()

	fields := searchFields
	if withAttributes {
		fields = searchFieldsWithAttributes
	}

	q := url.Values{}
	q.Set("fields", fields)
	q.Set("program", ProgramID)
	q.Set("page", "1")
	q.Set("ouMode", "ACCESSIBLE")

	u := c.baseURL + "/40/tracker/trackedEntities?" + q.Encode()
	for _, f := range filters {
		u += "&filter=" + url.QueryEscape(f)
	}

	var out searchResponse
	if err = c.getJSON(ctx, "search", u, &out); err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.Int64(tracer.AttrEntityCount, int64(len(out.Instances))))
	return out.Instances, nil
}

// ReserveIDs reserves n unique identifiers from the registry's generator.
// The registry may return fewer than requested; callers must check.
func (c *Client) ReserveIDs(ctx context.Context, n int) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanReserve,
		tracer.Int64(tracer.AttrReserveCount, int64(n)),
	)
	var err error
	defer func() { span.End(err) }()

	u := c.baseURL + "/system/id?limit=" + strconv.Itoa(n)
	var out idResponse
	if err = c.getJSON(ctx, "reserve", u, &out); err != nil {
		return nil, err
	}
	return out.Codes, nil
}

// Upsert posts a tracker payload synchronously. A non-2xx response is
// surfaced as a registry rejection carrying the registry's diagnostics.
func (c *Client) Upsert(ctx context.Context, payload TrackerPayload) error {
	ctx, span := c.tracer.Start(ctx, tracer.SpanUpsert)
	var err error
	defer func() { span.End(err) }()

	body, err := json.Marshal(payload)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal tracker payload")
	}

	u := c.baseURL + "/tracker?async=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create upsert request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	start := time.Now()
	resp, doErr := c.client.Do(req)
	c.observe("upsert", start, resp, doErr)
	if doErr != nil {
		err = c.transportError(ctx, doErr)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetAttributes(tracer.Int64(tracer.AttrStatusCode, int64(resp.StatusCode)))
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 8192)) //nolint:errcheck
		if resp.StatusCode >= 500 {
			err = dErrors.New(dErrors.CodeRegistryUnavailable,
				fmt.Sprintf("registry returned %d", resp.StatusCode))
			return err
		}
		err = dErrors.New(dErrors.CodeRegistryRejected,
			fmt.Sprintf("registry rejected upsert with %d: %s", resp.StatusCode, string(diag)))
		return err
	}
	return nil
}

// Enrollment reads back one enrollment with its event data values.
func (c *Client) Enrollment(ctx context.Context, uid string) (*Enrollment, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanEnrollment)
	var err error
	defer func() { span.End(err) }()

	u := c.baseURL + "/tracker/enrollments/" + url.PathEscape(uid) +
		"?fields=" + url.QueryEscape("trackedEntity,program,enrolledAt,events[programStage,dataValues[dataElement,value]]")
	var out Enrollment
	if err = c.getJSON(ctx, "enrollment", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// trackedEntityFields pulls everything needed to rebuild a declaration from
// the registry.
const trackedEntityFields = "enrollments[enrollment,events[event,programStage,dataValues[dataElement,value],occurredAt,completedAt]],attributes[attribute,value]"

// TrackedEntity reads a full person record including enrollment events.
func (c *Client) TrackedEntity(ctx context.Context, uid string) (*TrackedEntity, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanTrackedEntity)
	var err error
	defer func() { span.End(err) }()

	u := c.baseURL + "/40/tracker/trackedEntities/" + url.PathEscape(uid) +
		"?program=" + ProgramID + "&fields=" + url.QueryEscape(trackedEntityFields)
	var out TrackedEntity
	if err = c.getJSON(ctx, "tracked_entity", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RiskCountries fetches the option group of countries that require enhanced
// screening.
func (c *Client) RiskCountries(ctx context.Context) (*OptionGroup, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanMetadata)
	var err error
	defer func() { span.End(err) }()

	u := c.baseURL + "/optionGroups/" + RiskCountryOptionGroupID +
		"?fields=" + url.QueryEscape("name,options[name,code,sortOrder]")
	var out OptionGroup
	if err = c.getJSON(ctx, "option_group", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClinicalStage fetches the clinical question metadata for the program's
// clinical stage.
func (c *Client) ClinicalStage(ctx context.Context) (*ProgramStage, error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanMetadata)
	var err error
	defer func() { span.End(err) }()

	u := c.baseURL + "/programStages/" + ClinicalStageID +
		"?fields=" + url.QueryEscape("name,programStageDataElements[dataElement[id,formName,valueType,optionSet[options[name,code]]],sortOrder,compulsory]")
	var out ProgramStage
	if err = c.getJSON(ctx, "program_stage", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "ApiToken "+c.token)
	}
}

// getJSON executes a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, operation, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create registry request")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	c.observe(operation, start, resp, err)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, "registry record not found")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return dErrors.New(dErrors.CodeUnauthorized, "registry authentication failed")
	case resp.StatusCode >= 500:
		return dErrors.New(dErrors.CodeRegistryUnavailable,
			fmt.Sprintf("registry returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return dErrors.New(dErrors.CodeRegistryRejected,
			fmt.Sprintf("registry returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "decode registry response")
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "registry request timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "registry unreachable")
}

func (c *Client) observe(operation string, start time.Time, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	c.metrics.IncrementRegistryRequest(operation, status)
	c.metrics.ObserveRegistryLatency(operation, time.Since(start).Seconds())
}
