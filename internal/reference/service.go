package reference

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
)

// ClinicalQuestion is one question on the clinical step, as defined by the
// registry's program stage metadata.
type ClinicalQuestion struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	ValueType  string   `json:"valueType"`
	Options    []Option `json:"options,omitempty"`
	Compulsory bool     `json:"compulsory"`
}

// Metadata bundles the dynamic picklists the form needs.
type Metadata struct {
	RiskCountries     []Option           `json:"riskCountries"`
	ClinicalQuestions []ClinicalQuestion `json:"clinicalQuestions"`
}

// Question returns the clinical question with the given data element ID.
func (m *Metadata) Question(id string) (ClinicalQuestion, bool) {
	for _, q := range m.ClinicalQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return ClinicalQuestion{}, false
}

// Registry is the slice of the registry client the loader needs.
type Registry interface {
	RiskCountries(ctx context.Context) (*dhis2.OptionGroup, error)
	ClinicalStage(ctx context.Context) (*dhis2.ProgramStage, error)
}

const cacheKey = "thdf:reference:metadata"

// Service loads form metadata from the registry, with an optional Redis
// cache in front so registry hiccups don't take the wizard down.
type Service struct {
	registry Registry
	cache    redis.Cmdable
	ttl      time.Duration
	logger   *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithCache enables Redis caching of loaded metadata.
func WithCache(cache redis.Cmdable, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = cache
		s.ttl = ttl
	}
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a metadata loader. The registry dependency is required.
func NewService(registry Registry, opts ...ServiceOption) *Service {
	if registry == nil {
		panic("reference: registry is required")
	}
	s := &Service{registry: registry}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns form metadata, served from cache when fresh. The risk country
// and clinical question fetches run concurrently; both must succeed.
func (s *Service) Load(ctx context.Context) (*Metadata, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	var group *dhis2.OptionGroup
	var stage *dhis2.ProgramStage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		group, err = s.registry.RiskCountries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stage, err = s.registry.ClinicalStage(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	meta := &Metadata{
		RiskCountries:     mapRiskCountries(group),
		ClinicalQuestions: mapClinicalQuestions(stage),
	}
	s.toCache(ctx, meta)
	return meta, nil
}

func mapRiskCountries(group *dhis2.OptionGroup) []Option {
	opts := make([]dhis2.Option, len(group.Options))
	copy(opts, group.Options)
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].SortOrder < opts[j].SortOrder })

	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		out = append(out, Option{Label: o.Name, Value: o.Code})
	}
	return out
}

func mapClinicalQuestions(stage *dhis2.ProgramStage) []ClinicalQuestion {
	elems := make([]dhis2.ProgramStageDataElement, len(stage.ProgramStageDataElements))
	copy(elems, stage.ProgramStageDataElements)
	sort.SliceStable(elems, func(i, j int) bool { return elems[i].SortOrder < elems[j].SortOrder })

	out := make([]ClinicalQuestion, 0, len(elems))
	for _, e := range elems {
		// The classification flag is written by server side program rules
		// and is never asked of the traveler.
		if e.DataElement.ID == dhis2.ElemClassification {
			continue
		}
		q := ClinicalQuestion{
			ID:         e.DataElement.ID,
			Label:      e.DataElement.FormName,
			ValueType:  e.DataElement.ValueType,
			Compulsory: e.Compulsory,
		}
		if q.Label == "" {
			q.Label = e.DataElement.ID
		}
		if e.DataElement.OptionSet != nil {
			for _, o := range e.DataElement.OptionSet.Options {
				q.Options = append(q.Options, Option{Label: o.Name, Value: o.Code})
			}
		}
		out = append(out, q)
	}
	return out
}

func (s *Service) fromCache(ctx context.Context) *Metadata {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		if s.logger != nil {
			s.logger.Warn("discarding corrupt metadata cache entry", "error", err)
		}
		return nil
	}
	return &meta
}

func (s *Service) toCache(ctx context.Context, meta *Metadata) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Warn("failed to cache metadata", "error", err)
	}
}
