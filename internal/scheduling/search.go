package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/workingday"
)

// Premises characteristics that trigger gender-exclusivity rules. They are
// enforced by exclusion, not by inclusion matching, and only one of the two
// can fire per search.
const (
	CharacteristicMenOnly   = "menOnly"
	CharacteristicWomenOnly = "womenOnly"
)

// BedspacePool resolves search scope and supplies candidate bedspaces with
// their room, premises, and characteristics populated.
type BedspacePool interface {
	ProbationDeliveryUnits(ctx context.Context, ids []uuid.UUID) ([]model.ProbationDeliveryUnit, error)
	ResolveCharacteristics(ctx context.Context, names []string) ([]model.Characteristic, error)
	// BedspacesForSearch returns bedspaces in the given delivery units that
	// are not archived before endDate and have no booking or void period
	// intersecting [startDate, endDate], in a stable order.
	BedspacesForSearch(ctx context.Context, deliveryUnitIDs []uuid.UUID, startDate, endDate time.Time) ([]model.Bedspace, error)
	// LatestBookingDepartingBefore returns the non-cancelled booking on the
	// bedspace with the latest departure before the given date, or nil.
	LatestBookingDepartingBefore(ctx context.Context, bedspaceID uuid.UUID, before time.Time) (*model.Booking, error)
}

// PersonDirectory enriches person references with name and sex for overlap
// annotation. Refs the directory does not know are simply absent from the
// returned map.
type PersonDirectory interface {
	PersonDetails(ctx context.Context, refs []string) (map[string]model.Person, error)
}

// CharacteristicFilters lists attribute names a candidate must carry and
// names it must not carry.
type CharacteristicFilters struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// SearchCriteria describes a bedspace search request.
type SearchCriteria struct {
	ProbationDeliveryUnitIDs []uuid.UUID
	StartDate                time.Time
	DurationDays             int
	PremisesFilters          CharacteristicFilters
	RoomFilters              CharacteristicFilters
}

// EndDate is the last day of the search window: StartDate plus
// DurationDays - 1 days.
func (c SearchCriteria) EndDate() time.Time {
	return workingday.DateOnly(c.StartDate).AddDate(0, 0, c.DurationDays-1)
}

// Overlap describes an existing booking elsewhere in a candidate's premises
// that intersects the search window. Overlaps feed gender exclusion and are
// disclosed to callers for ranking and explanation.
type Overlap struct {
	PersonRef  string    `json:"personRef"`
	PersonName string    `json:"personName,omitempty"`
	Sex        model.Sex `json:"sex"`
	Days       int       `json:"days"`
	BookingID  uuid.UUID `json:"bookingId"`
	BedspaceID uuid.UUID `json:"bedspaceId"`
	RoomID     uuid.UUID `json:"roomId"`
	PremisesID uuid.UUID `json:"premisesId"`
}

// Candidate is a bedspace surfaced by search, annotated with the overlapping
// bookings of its premises.
type Candidate struct {
	Bedspace model.Bedspace
	Overlaps []Overlap
}

// SearchEngine filters and annotates candidate bedspaces for a search
// request. It does not rank results; ordering follows the pool's stable
// order, so identical inputs yield identical output order.
type SearchEngine struct {
	pool      BedspacePool
	occupancy PremisesOccupancyReader
	persons   PersonDirectory
}

// NewSearchEngine creates a search engine over the given collaborators.
func NewSearchEngine(pool BedspacePool, occupancy PremisesOccupancyReader, persons PersonDirectory) *SearchEngine {
	return &SearchEngine{pool: pool, occupancy: occupancy, persons: persons}
}

// Search runs the full pipeline: collected validation, turnaround exclusion,
// overlap annotation, then attribute and gender filtering.
func (e *SearchEngine) Search(ctx context.Context, cal *workingday.Calendar, criteria SearchCriteria) ([]Candidate, error) {
	premisesFilters, roomFilters, err := e.validate(ctx, criteria)
	if err != nil {
		return nil, err
	}

	startDate := workingday.DateOnly(criteria.StartDate)
	endDate := criteria.EndDate()

	bedspaces, err := e.pool.BedspacesForSearch(ctx, criteria.ProbationDeliveryUnitIDs, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate bedspaces: %w", err)
	}

	candidates, err := e.excludeInTurnaround(ctx, cal, bedspaces, startDate)
	if err != nil {
		return nil, err
	}

	if err := e.annotateOverlaps(ctx, candidates, startDate, endDate); err != nil {
		return nil, err
	}

	return filterByCharacteristics(candidates, premisesFilters, roomFilters), nil
}

type resolvedFilters struct {
	include   map[string]struct{}
	exclude   map[string]struct{}
	menOnly   bool
	womenOnly bool
}

func (e *SearchEngine) validate(ctx context.Context, criteria SearchCriteria) (resolvedFilters, resolvedFilters, error) {
	verr := &ValidationError{}

	if criteria.DurationDays < 1 {
		verr.add("durationDays", "must be at least 1")
	}
	if len(criteria.ProbationDeliveryUnitIDs) == 0 {
		verr.add("probationDeliveryUnitIds", "at least one delivery unit is required")
	} else {
		units, err := e.pool.ProbationDeliveryUnits(ctx, criteria.ProbationDeliveryUnitIDs)
		if err != nil {
			return resolvedFilters{}, resolvedFilters{}, fmt.Errorf("failed to resolve probation delivery units: %w", err)
		}
		known := make(map[uuid.UUID]struct{}, len(units))
		for _, u := range units {
			known[u.ID] = struct{}{}
		}
		for _, id := range criteria.ProbationDeliveryUnitIDs {
			if _, ok := known[id]; !ok {
				verr.add("probationDeliveryUnitIds", fmt.Sprintf("unknown probation delivery unit %s", id))
			}
		}
	}

	resolved, err := e.resolveCharacteristics(ctx, criteria)
	if err != nil {
		return resolvedFilters{}, resolvedFilters{}, err
	}

	premises := buildFilters(criteria.PremisesFilters, model.ScopePremises, resolved, "premisesFilters", verr)
	room := buildFilters(criteria.RoomFilters, model.ScopeRoom, resolved, "roomFilters", verr)

	if premises.menOnly && premises.womenOnly {
		verr.add("premisesFilters", "menOnly and womenOnly cannot be combined")
	}

	if len(verr.Errors) > 0 {
		return resolvedFilters{}, resolvedFilters{}, verr
	}
	return premises, room, nil
}

func (e *SearchEngine) resolveCharacteristics(ctx context.Context, criteria SearchCriteria) (map[string]model.Characteristic, error) {
	seen := make(map[string]struct{})
	var names []string
	for _, set := range [][]string{
		criteria.PremisesFilters.Include, criteria.PremisesFilters.Exclude,
		criteria.RoomFilters.Include, criteria.RoomFilters.Exclude,
	} {
		for _, name := range set {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return map[string]model.Characteristic{}, nil
	}

	characteristics, err := e.pool.ResolveCharacteristics(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve characteristics: %w", err)
	}
	byName := make(map[string]model.Characteristic, len(characteristics))
	for _, c := range characteristics {
		byName[c.Name] = c
	}
	return byName, nil
}

func buildFilters(filters CharacteristicFilters, scope model.CharacteristicScope, resolved map[string]model.Characteristic, field string, verr *ValidationError) resolvedFilters {
	out := resolvedFilters{
		include: make(map[string]struct{}),
		exclude: make(map[string]struct{}),
	}
	collect := func(names []string, into map[string]struct{}) {
		for _, name := range names {
			c, ok := resolved[name]
			if !ok {
				verr.add(field, fmt.Sprintf("unknown characteristic %q", name))
				continue
			}
			if c.Scope != scope {
				verr.add(field, fmt.Sprintf("characteristic %q is not %s-scoped", name, scope))
				continue
			}
			into[name] = struct{}{}
		}
	}
	collect(filters.Include, out.include)
	collect(filters.Exclude, out.exclude)

	if _, ok := out.include[CharacteristicMenOnly]; ok {
		out.menOnly = true
		delete(out.include, CharacteristicMenOnly)
	}
	if _, ok := out.include[CharacteristicWomenOnly]; ok {
		out.womenOnly = true
		delete(out.include, CharacteristicWomenOnly)
	}
	return out
}

// excludeInTurnaround drops bedspaces still in turnaround at the search start
// date. Only the single most recent prior booking is inspected; an earlier
// booking with a longer turnaround window is not considered.
func (e *SearchEngine) excludeInTurnaround(ctx context.Context, cal *workingday.Calendar, bedspaces []model.Bedspace, startDate time.Time) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(bedspaces))
	for i := range bedspaces {
		latest, err := e.pool.LatestBookingDepartingBefore(ctx, bedspaces[i].ID, startDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest booking for bedspace %s: %w", bedspaces[i].ID, err)
		}
		if latest != nil && !latest.LastUnavailableDate(cal).Before(startDate) {
			continue
		}
		candidates = append(candidates, Candidate{Bedspace: bedspaces[i]})
	}
	return candidates, nil
}

func (e *SearchEngine) annotateOverlaps(ctx context.Context, candidates []Candidate, startDate, endDate time.Time) error {
	if len(candidates) == 0 {
		return nil
	}

	premisesIDs := make([]uuid.UUID, 0, len(candidates))
	seen := make(map[uuid.UUID]struct{})
	for i := range candidates {
		id := candidates[i].Bedspace.Room.PremisesID
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			premisesIDs = append(premisesIDs, id)
		}
	}

	bookings, err := e.occupancy.BookingsForPremises(ctx, premisesIDs, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to load overlapping bookings: %w", err)
	}

	var refs []string
	seenRefs := make(map[string]struct{})
	for i := range bookings {
		if bookings[i].Status == model.BookingStatusCancelled {
			continue
		}
		if _, ok := seenRefs[bookings[i].PersonRef]; !ok {
			seenRefs[bookings[i].PersonRef] = struct{}{}
			refs = append(refs, bookings[i].PersonRef)
		}
	}

	persons := map[string]model.Person{}
	if len(refs) > 0 {
		persons, err = e.persons.PersonDetails(ctx, refs)
		if err != nil {
			return fmt.Errorf("failed to load person details: %w", err)
		}
	}

	overlapsByPremises := make(map[uuid.UUID][]Overlap)
	for i := range bookings {
		b := &bookings[i]
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		overlap := Overlap{
			PersonRef:  b.PersonRef,
			Sex:        model.SexUnknown,
			Days:       overlapDays(b, startDate, endDate),
			BookingID:  b.ID,
			BedspaceID: b.BedspaceID,
			RoomID:     b.Bedspace.RoomID,
			PremisesID: b.Bedspace.Room.PremisesID,
		}
		if person, ok := persons[b.PersonRef]; ok {
			overlap.PersonName = person.Name
			overlap.Sex = person.Sex
		}
		overlapsByPremises[overlap.PremisesID] = append(overlapsByPremises[overlap.PremisesID], overlap)
	}

	for i := range candidates {
		candidates[i].Overlaps = overlapsByPremises[candidates[i].Bedspace.Room.PremisesID]
	}
	return nil
}

// overlapDays counts the days the booking's raw inclusive interval shares
// with the search window [startDate, endDate].
func overlapDays(b *model.Booking, startDate, endDate time.Time) int {
	from := workingday.DateOnly(b.ArrivalDate)
	if from.Before(startDate) {
		from = startDate
	}
	to := workingday.DateOnly(b.DepartureDate)
	if to.After(endDate) {
		to = endDate
	}
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func filterByCharacteristics(candidates []Candidate, premises, room resolvedFilters) []Candidate {
	result := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		premisesNames := characteristicNames(c.Bedspace.Room.Premises.Characteristics)
		roomNames := characteristicNames(c.Bedspace.Room.Characteristics)

		if premises.menOnly && excludedByGender(c, premisesNames, CharacteristicWomenOnly, model.SexFemale) {
			continue
		}
		if premises.womenOnly && excludedByGender(c, premisesNames, CharacteristicMenOnly, model.SexMale) {
			continue
		}
		if !matchesFilters(premisesNames, premises) || !matchesFilters(roomNames, room) {
			continue
		}
		result = append(result, *c)
	}
	return result
}

func excludedByGender(c *Candidate, premisesNames map[string]struct{}, oppositeMarker string, oppositeSex model.Sex) bool {
	if _, ok := premisesNames[oppositeMarker]; ok {
		return true
	}
	for _, overlap := range c.Overlaps {
		if overlap.Sex == oppositeSex {
			return true
		}
	}
	return false
}

func matchesFilters(names map[string]struct{}, filters resolvedFilters) bool {
	for required := range filters.include {
		if _, ok := names[required]; !ok {
			return false
		}
	}
	for excluded := range filters.exclude {
		if _, ok := names[excluded]; ok {
			return false
		}
	}
	return true
}

func characteristicNames(characteristics []model.Characteristic) map[string]struct{} {
	names := make(map[string]struct{}, len(characteristics))
	for _, c := range characteristics {
		names[c.Name] = struct{}{}
	}
	return names
}
