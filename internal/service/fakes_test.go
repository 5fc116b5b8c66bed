package service

import (
	"context"
	"time"

	"github.com/prperemyshlev/habit-tracker/internal/domain"
)

const (
	testUserID  = "7b0f8a56-6a0e-4f8c-9b61-2f3c8f4f1e2a"
	testHabitID = "2c1d5f1e-93a8-4b7e-8f0a-51d1c3c6e9b4"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeVerifier struct {
	claims *domain.ProviderClaims
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*domain.ProviderClaims, error) {
	f.calls++
	return f.claims, f.err
}

type fakeIssuer struct {
	token string
	err   error
}

func (f *fakeIssuer) Issue(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token + ":" + userID + ":" + email, nil
}

type fakeUserRepo struct {
	users    map[string]*domain.User
	upserted []domain.ProviderClaims
	err      error
}

func (f *fakeUserRepo) Upsert(_ context.Context, claims domain.ProviderClaims) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserted = append(f.upserted, claims)
	return &domain.User{ID: testUserID, Email: claims.Email, Name: claims.Name, ImageURL: claims.Picture}, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type fakeHabitRepo struct {
	created    []*domain.Habit
	slots      []*domain.HabitSlot
	checklist  []domain.ChecklistItem
	checkedDay time.Time
	err        error
}

func (f *fakeHabitRepo) CreateWithSlot(_ context.Context, habit *domain.Habit, slot *domain.HabitSlot) error {
	if f.err != nil {
		return f.err
	}
	habit.ID = testHabitID
	slot.HabitID = testHabitID
	f.created = append(f.created, habit)
	f.slots = append(f.slots, slot)
	return nil
}

func (f *fakeHabitRepo) Checklist(_ context.Context, _ string, day time.Time) ([]domain.ChecklistItem, error) {
	f.checkedDay = day
	return f.checklist, f.err
}

type fakeLogRepo struct {
	got *domain.HabitLog
	err error
}

func (f *fakeLogRepo) Upsert(_ context.Context, _ string, log *domain.HabitLog) (*domain.HabitLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = log
	saved := *log
	saved.CreatedAt = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	return &saved, nil
}

type fakeStatsRepo struct {
	slots    []domain.SlotKey
	logs     []domain.CompletedLog
	from, to time.Time
	calls    int
}

func (f *fakeStatsRepo) CompletionInputs(_ context.Context, _ string, from, to time.Time) ([]domain.SlotKey, []domain.CompletedLog, error) {
	f.calls++
	f.from, f.to = from, to
	return f.slots, f.logs, nil
}
