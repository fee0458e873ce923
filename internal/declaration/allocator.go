package declaration

import (
	"context"
	"fmt"

	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

// identifiersNeeded returns how many fresh registry identifiers a submission
// requires. An edit session only needs identifiers for records it is missing;
// a fresh session needs them according to the resolution outcome.
func identifiersNeeded(res Resolution, editing *EditTarget) int {
	if editing != nil {
		n := 0
		if editing.Enrollment == "" {
			n++
		}
		if editing.TravelEvent == "" {
			n++
		}
		if editing.ClinicalEvent == "" {
			n++
		}
		return n
	}
	switch res.Outcome {
	case NewTraveler:
		return 4
	case MatchedUnenrolled:
		return 3
	default:
		return 2
	}
}

// Allocate reserves the identifiers a submission needs and assigns them in
// fixed order: person, enrollment, travel event, clinical event. Existing
// identifiers from the resolution or edit target are kept. A shortfall from
// the registry aborts the submission; identifiers are never invented locally.
func Allocate(ctx context.Context, registry Registry, res Resolution, editing *EditTarget) (IdentitySet, error) {
	need := identifiersNeeded(res, editing)

	var codes []string
	if need > 0 {
		var err error
		codes, err = registry.ReserveIDs(ctx, need)
		if err != nil {
			return IdentitySet{}, err
		}
		if len(codes) < need {
			return IdentitySet{}, dErrors.New(dErrors.CodeAllocationShortfall,
				fmt.Sprintf("reserved %d of %d identifiers", len(codes), need))
		}
	}

	next := func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	var set IdentitySet
	if editing != nil {
		set = IdentitySet{
			Person:        editing.TrackedEntity,
			Enrollment:    editing.Enrollment,
			TravelEvent:   editing.TravelEvent,
			ClinicalEvent: editing.ClinicalEvent,
		}
		if set.Enrollment == "" {
			set.Enrollment = next()
		}
		if set.TravelEvent == "" {
			set.TravelEvent = next()
		}
		if set.ClinicalEvent == "" {
			set.ClinicalEvent = next()
		}
		return set, nil
	}

	set.Person = res.TrackedEntity
	set.Enrollment = res.Enrollment
	if set.Person == "" {
		set.Person = next()
	}
	if set.Enrollment == "" {
		set.Enrollment = next()
	}
	set.TravelEvent = next()
	set.ClinicalEvent = next()
	return set, nil
}
