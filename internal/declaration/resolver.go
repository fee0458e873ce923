package declaration

import (
	"context"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
)

// Resolve deduplicates a traveler against the registry. Probes run in fixed
// priority order and stop at the first hit: exact passport, exact phone,
// then case-insensitive first and last name. Only the first match of a probe
// is considered.
func Resolve(ctx context.Context, registry Registry, p Personal) (Resolution, error) {
	probes := [][]string{}
	if p.Passport != "" {
		probes = append(probes, []string{dhis2.Filter(dhis2.AttrPassport, "eq", p.Passport)})
	}
	if p.Phone != "" {
		probes = append(probes, []string{dhis2.Filter(dhis2.AttrPhone, "eq", p.Phone)})
	}
	if p.FirstName != "" && p.LastName != "" {
		probes = append(probes, []string{
			dhis2.Filter(dhis2.AttrFirstName, "ilike", p.FirstName),
			dhis2.Filter(dhis2.AttrLastName, "ilike", p.LastName),
		})
	}

	for _, filters := range probes {
		instances, err := registry.Search(ctx, filters, false)
		if err != nil {
			return Resolution{}, err
		}
		if len(instances) == 0 {
			continue
		}
		found := instances[0]
		res := Resolution{
			Outcome:       MatchedUnenrolled,
			TrackedEntity: found.TrackedEntity,
		}
		if len(found.Enrollments) > 0 {
			res.Outcome = MatchedEnrolled
			res.Enrollment = found.Enrollments[0].Enrollment
			res.EnrolledAt = found.Enrollments[0].EnrolledAt
		}
		return res, nil
	}

	return Resolution{Outcome: NewTraveler}, nil
}
