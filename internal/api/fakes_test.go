package api

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"bedspace-scheduling-backend/internal/model"
	"bedspace-scheduling-backend/internal/store"
)

// fakeStore is an in-memory store.Store for handler tests.
type fakeStore struct {
	units           map[uuid.UUID]model.ProbationDeliveryUnit
	premises        map[uuid.UUID]model.Premises
	bedspaces       map[uuid.UUID]model.Bedspace
	bookings        map[uuid.UUID]*model.Booking
	voids           map[uuid.UUID]*model.VoidPeriod
	characteristics map[string]model.Characteristic
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		units:           make(map[uuid.UUID]model.ProbationDeliveryUnit),
		premises:        make(map[uuid.UUID]model.Premises),
		bedspaces:       make(map[uuid.UUID]model.Bedspace),
		bookings:        make(map[uuid.UUID]*model.Booking),
		voids:           make(map[uuid.UUID]*model.VoidPeriod),
		characteristics: make(map[string]model.Characteristic),
	}
}

func (f *fakeStore) PremisesByID(_ context.Context, id uuid.UUID) (*model.Premises, error) {
	p, ok := f.premises[id]
	if !ok {
		return nil, fmt.Errorf("premises %s: %w", id, store.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeStore) BedspaceByID(_ context.Context, id uuid.UUID) (*model.Bedspace, error) {
	b, ok := f.bedspaces[id]
	if !ok {
		return nil, fmt.Errorf("bedspace %s: %w", id, store.ErrNotFound)
	}
	return &b, nil
}

func (f *fakeStore) BookingsForBedspace(_ context.Context, bedspaceID uuid.UUID, arrivingOnOrBefore time.Time) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.BedspaceID == bedspaceID && b.Status != model.BookingStatusCancelled && !b.ArrivalDate.After(arrivingOnOrBefore) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArrivalDate.Before(out[j].ArrivalDate) })
	return out, nil
}

func (f *fakeStore) VoidPeriodsForBedspace(_ context.Context, bedspaceID uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error) {
	var out []model.VoidPeriod
	for _, v := range f.voids {
		if v.BedspaceID == bedspaceID && !v.Cancelled() && v.StartDate.Before(to) && v.EndDate.After(from) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeStore) premisesIDForBedspace(bedspaceID uuid.UUID) uuid.UUID {
	if b, ok := f.bedspaces[bedspaceID]; ok {
		return b.Room.PremisesID
	}
	return uuid.Nil
}

func (f *fakeStore) BookingsForPremises(_ context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.Booking, error) {
	scope := make(map[uuid.UUID]struct{}, len(premisesIDs))
	for _, id := range premisesIDs {
		scope[id] = struct{}{}
	}
	var out []model.Booking
	for _, b := range f.bookings {
		if _, ok := scope[f.premisesIDForBedspace(b.BedspaceID)]; !ok {
			continue
		}
		if b.ArrivalDate.After(to) || b.DepartureDate.Before(from) {
			continue
		}
		copied := *b
		copied.Bedspace = f.bedspaces[b.BedspaceID]
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArrivalDate.Before(out[j].ArrivalDate) })
	return out, nil
}

func (f *fakeStore) VoidPeriodsForPremises(_ context.Context, premisesIDs []uuid.UUID, from, to time.Time) ([]model.VoidPeriod, error) {
	scope := make(map[uuid.UUID]struct{}, len(premisesIDs))
	for _, id := range premisesIDs {
		scope[id] = struct{}{}
	}
	var out []model.VoidPeriod
	for _, v := range f.voids {
		if _, ok := scope[f.premisesIDForBedspace(v.BedspaceID)]; !ok {
			continue
		}
		if v.Cancelled() || !v.StartDate.Before(to) || !v.EndDate.After(from) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeStore) LatestBookingDepartingBefore(_ context.Context, bedspaceID uuid.UUID, before time.Time) (*model.Booking, error) {
	var latest *model.Booking
	for _, b := range f.bookings {
		if b.BedspaceID != bedspaceID || b.Status == model.BookingStatusCancelled || !b.DepartureDate.Before(before) {
			continue
		}
		if latest == nil || b.DepartureDate.After(latest.DepartureDate) {
			latest = b
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeStore) BedspacesForSearch(_ context.Context, deliveryUnitIDs []uuid.UUID, startDate, endDate time.Time) ([]model.Bedspace, error) {
	units := make(map[uuid.UUID]struct{}, len(deliveryUnitIDs))
	for _, id := range deliveryUnitIDs {
		units[id] = struct{}{}
	}
	var out []model.Bedspace
	for _, b := range f.bedspaces {
		premises, ok := f.premises[b.Room.PremisesID]
		if !ok {
			continue
		}
		if _, ok := units[premises.ProbationDeliveryUnitID]; !ok {
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
			!v.StartDate.After(endDate) && v.EndDate.After(startDate) {
			return true
		}
	}
	return false
}

func (f *fakeStore) ProbationDeliveryUnits(_ context.Context, ids []uuid.UUID) ([]model.ProbationDeliveryUnit, error) {
	var out []model.ProbationDeliveryUnit
	for _, id := range ids {
		if u, ok := f.units[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) ResolveCharacteristics(_ context.Context, names []string) ([]model.Characteristic, error) {
	var out []model.Characteristic
	for _, name := range names {
		if c, ok := f.characteristics[name]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) BookingByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, store.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, booking *model.Booking) error {
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateBookingDeparture(_ context.Context, id uuid.UUID, departure time.Time) error {
	b, ok := f.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, store.ErrNotFound)
	}
	b.DepartureDate = departure
	return nil
}

func (f *fakeStore) VoidPeriodByID(_ context.Context, id uuid.UUID) (*model.VoidPeriod, error) {
	v, ok := f.voids[id]
	if !ok {
		return nil, fmt.Errorf("void period %s: %w", id, store.ErrNotFound)
	}
	copied := *v
	return &copied, nil
}

func (f *fakeStore) CreateVoidPeriod(_ context.Context, void *model.VoidPeriod) error {
	copied := *void
	f.voids[void.ID] = &copied
	return nil
}

func (f *fakeStore) CancelVoidPeriod(_ context.Context, id uuid.UUID, at time.Time) error {
	v, ok := f.voids[id]
	if !ok || v.Cancelled() {
		return fmt.Errorf("void period %s: %w", id, store.ErrNotFound)
	}
	v.CancelledAt = &at
	return nil
}

func (f *fakeStore) Transaction(_ context.Context, fn func(store.Store) error) error {
	return fn(f)
}

// fakeHolidaySource serves a fixed holiday list, or fails.
type fakeHolidaySource struct {
	holidays []time.Time
	err      error
}

func (f *fakeHolidaySource) GetBankHolidays(context.Context) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.holidays, nil
}

// fakeDirectory serves fixed person details.
type fakeDirectory struct {
	persons map[string]model.Person
	err     error
}

func (f *fakeDirectory) PersonDetails(_ context.Context, refs []string) (map[string]model.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]model.Person)
	for _, ref := range refs {
		if p, ok := f.persons[ref]; ok {
			out[ref] = p
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
