package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

func TestJournalService_Create(t *testing.T) {
	store := newStubStore()
	sched := &recordingScheduler{}
	svc := NewJournalService(store, sched, zerolog.Nop())

	j, err := svc.Create(context.Background(), 7, 3, "  tired  ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if j.ID == 0 || j.UserID != 7 || j.WellbeingScore != 3 || j.Note != "tired" {
		t.Fatalf("unexpected journal: %+v", j)
	}
	if len(store.journals) != 1 || store.commits != 1 {
		t.Fatalf("expected one committed journal, got %d journals and %d commits", len(store.journals), store.commits)
	}
	if got := sched.scheduled(); len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected a summary scheduled for user 7, got %v", got)
	}
}

func TestJournalService_Create_ScoreBounds(t *testing.T) {
	svc := NewJournalService(newStubStore(), nil, zerolog.Nop())

	for _, score := range []int{0, 5} {
		if _, err := svc.Create(context.Background(), 1, score, ""); err != nil {
			t.Fatalf("score %d: unexpected error %v", score, err)
		}
	}
	for _, score := range []int{-1, 6} {
		if _, err := svc.Create(context.Background(), 1, score, ""); !errors.Is(err, domain.ErrScoreOutOfRange) {
			t.Fatalf("score %d: expected ErrScoreOutOfRange, got %v", score, err)
		}
	}
}

func TestJournalService_Create_WriteFailureRollsBack(t *testing.T) {
	store := newStubStore()
	store.writeErr = errors.New("disk full")
	sched := &recordingScheduler{}
	svc := NewJournalService(store, sched, zerolog.Nop())

	if _, err := svc.Create(context.Background(), 1, 2, "x"); err == nil {
		t.Fatalf("expected error")
	}
	if store.rollbacks != 1 || len(store.journals) != 0 {
		t.Fatalf("expected rollback with no rows, got %d rollbacks and %d rows", store.rollbacks, len(store.journals))
	}
	if len(sched.scheduled()) != 0 {
		t.Fatalf("no summary must be scheduled after a failed write")
	}
}

func TestJournalService_ListRecent(t *testing.T) {
	store := newStubStore()
	svc := NewJournalService(store, nil, zerolog.Nop())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		_ = store.Journals().Create(context.Background(), &domain.Journal{UserID: 1, WellbeingScore: i % 6, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	_ = store.Journals().Create(context.Background(), &domain.Journal{UserID: 2, CreatedAt: base.Add(24 * time.Hour)})

	got, err := svc.ListRecent(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 journals, got %d", len(got))
	}
	if !got[0].CreatedAt.Equal(base.Add(6 * time.Hour)) {
		t.Fatalf("expected newest first, got %v", got[0].CreatedAt)
	}
}

func TestJournalService_Delete(t *testing.T) {
	store := newStubStore()
	svc := NewJournalService(store, nil, zerolog.Nop())
	ctx := context.Background()

	j, _ := svc.Create(ctx, 1, 4, "ok")

	if err := svc.Delete(ctx, 2, j.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.Delete(ctx, 1, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 1, j.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(store.journals) != 0 {
		t.Fatalf("expected journal removed")
	}
}
