package scheduling

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/workingday"
)

// fakeStore is an in-memory stand-in for the persistence layer, mirroring the
// query contracts the real store implements.
type fakeStore struct {
	deliveryUnits   []model.ProbationDeliveryUnit
	characteristics []model.Characteristic
	bedspaces       []model.Bedspace
	bookings        []model.Booking
	voids           []model.VoidPeriod

	failReads bool
}

var errReadFailed = errors.New("read failed")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fakeStore) BedspaceByID(_ context.Context, id uuid.UUID) (*model.Bedspace, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	for i := range f.bedspaces {
		if f.bedspaces[i].ID == id {
			return &f.bedspaces[i], nil
		}
	}
	return nil, errors.New("bedspace not found")
}

func (f *fakeStore) BookingsForBedspace(_ context.Context, bedspaceID uuid.UUID, arrivingOnOrBefore time.Time) ([]model.Booking, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	var out []model.Booking
	for _, b := range f.bookings {
		if b.BedspaceID == bedspaceID && b.Status != model.BookingStatusCancelled && !b.ArrivalDate.After(arrivingOnOrBefore) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) VoidPeriodsForBedspace(_ context.Context, bedspaceID uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	var out []model.VoidPeriod
	for _, v := range f.voids {
		if v.BedspaceID == bedspaceID && !v.Cancelled() && v.StartDate.Before(to) && v.EndDate.After(from) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) premisesOfBedspace(bedspaceID uuid.UUID) uuid.UUID {
	for i := range f.bedspaces {
		if f.bedspaces[i].ID == bedspaceID {
			return f.bedspaces[i].Room.PremisesID
		}
	}
	return uuid.Nil
}

func (f *fakeStore) BookingsForPremises(_ context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	scope := make(map[uuid.UUID]struct{}, len(premisesIDs))
	for _, id := range premisesIDs {
		scope[id] = struct{}{}
	}
	var out []model.Booking
	for _, b := range f.bookings {
		if _, ok := scope[f.premisesOfBedspace(b.BedspaceID)]; !ok {
			continue
		}
		if !b.ArrivalDate.After(to) && !b.DepartureDate.Before(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) VoidPeriodsForPremises(_ context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	scope := make(map[uuid.UUID]struct{}, len(premisesIDs))
	for _, id := range premisesIDs {
		scope[id] = struct{}{}
	}
	var out []model.VoidPeriod
	for _, v := range f.voids {
		if _, ok := scope[f.premisesOfBedspace(v.BedspaceID)]; !ok {
			continue
		}
		if !v.Cancelled() && v.StartDate.Before(to) && v.EndDate.After(from) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) ProbationDeliveryUnits(_ context.Context, ids []uuid.UUID) ([]model.ProbationDeliveryUnit, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	requested := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	var out []model.ProbationDeliveryUnit
	for _, u := range f.deliveryUnits {
		if _, ok := requested[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) ResolveCharacteristics(_ context.Context, names []string) ([]model.Characteristic, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	requested := make(map[string]struct{}, len(names))
	for _, n := range names {
		requested[n] = struct{}{}
	}
	var out []model.Characteristic
	for _, c := range f.characteristics {
		if _, ok := requested[c.Name]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) BedspacesForSearch(_ context.Context, deliveryUnitIDs []uuid.UUID, startDate, endDate time.Time) ([]model.Bedspace, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	scope := make(map[uuid.UUID]struct{}, len(deliveryUnitIDs))
	for _, id := range deliveryUnitIDs {
		scope[id] = struct{}{}
	}
	var out []model.Bedspace
	for _, b := range f.bedspaces {
		if _, ok := scope[b.Room.Premises.ProbationDeliveryUnitID]; !ok {
			continue
		}
		if b.EndDate != nil && !b.EndDate.After(endDate) {
			continue
		}
		if f.occupiedInWindow(b.ID, startDate, endDate) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (f *fakeStore) occupiedInWindow(bedspaceID uuid.UUID, startDate, endDate time.Time) bool {
	for _, b := range f.bookings {
		if b.BedspaceID == bedspaceID && b.Status != model.BookingStatusCancelled &&
			!b.ArrivalDate.After(endDate) && !b.DepartureDate.Before(startDate) {
			return true
		}
	}
	for _, v := range f.voids {
		if v.BedspaceID == bedspaceID && !v.Cancelled() &&
			v.StartDate.Before(endDate.AddDate(0, 0, 1)) && v.EndDate.After(startDate) {
			return true
		}
	}
	return false
}

func (f *fakeStore) LatestBookingDepartingBefore(_ context.Context, bedspaceID uuid.UUID, before time.Time) (*model.Booking, error) {
	if f.failReads {
		return nil, errReadFailed
	}
	var latest *model.Booking
	for i := range f.bookings {
		b := &f.bookings[i]
		if b.BedspaceID != bedspaceID || b.Status == model.BookingStatusCancelled {
			continue
		}
		if !b.DepartureDate.Before(before) {
			continue
		}
		if latest == nil || b.DepartureDate.After(latest.DepartureDate) {
			latest = b
		}
	}
	return latest, nil
}

// fakeDirectory returns canned person details and records whether it was
// called, so tests can assert the pipeline survives unknown refs.
type fakeDirectory struct {
	persons map[string]model.Person
	err     error
}

func (f *fakeDirectory) PersonDetails(_ context.Context, refs []string) (map[string]model.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]model.Person, len(refs))
	for _, ref := range refs {
		if p, ok := f.persons[ref]; ok {
			out[ref] = p
		}
	}
	return out, nil
}

func noHolidays() *workingday.Calendar {
	return workingday.NewCalendar(nil)
}
