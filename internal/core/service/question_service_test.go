package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

func TestQuestionService_Add(t *testing.T) {
	store := newStubStore()
	svc := NewQuestionService(store, zerolog.Nop())

	q, err := svc.Add(context.Background(), ports.AddQuestionInput{
		Role:    domain.RoleTherapist,
		Text:    "Sleep quality?",
		Options: []domain.Option{{Text: "bad", Points: 1}, {Text: "good", Points: 5}},
	})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if q.ID == 0 || len(q.Options) != 2 || q.Options[1].Points != 5 {
		t.Fatalf("unexpected question: %+v", q)
	}

	list, _ := svc.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("expected 1 question, got %d", len(list))
	}
}

func TestQuestionService_Add_Validation(t *testing.T) {
	svc := NewQuestionService(newStubStore(), zerolog.Nop())
	opts := []domain.Option{{Text: "a", Points: 1}}

	tests := []struct {
		name string
		in   ports.AddQuestionInput
		want error
	}{
		{name: "worker", in: ports.AddQuestionInput{Role: domain.RoleWorker, Text: "q", Options: opts}, want: domain.ErrForbidden},
		{name: "admin", in: ports.AddQuestionInput{Role: domain.RoleAdmin, Text: "q", Options: opts}, want: domain.ErrForbidden},
		{name: "no options", in: ports.AddQuestionInput{Role: domain.RoleTherapist, Text: "q"}, want: domain.ErrEmptyOptions},
		{name: "blank text", in: ports.AddQuestionInput{Role: domain.RoleTherapist, Text: "  ", Options: opts}, want: domain.ErrEmptyText},
		{name: "blank option", in: ports.AddQuestionInput{Role: domain.RoleTherapist, Text: "q", Options: []domain.Option{{Text: ""}}}, want: domain.ErrEmptyText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestQuestionService_Delete(t *testing.T) {
	store := newStubStore()
	svc := NewQuestionService(store, zerolog.Nop())
	ctx := context.Background()
	id := seedQuestion(t, store, domain.Option{Text: "a", Points: 1})

	if err := svc.Delete(ctx, domain.RoleWorker, id); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, domain.RoleTherapist, 999); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, domain.RoleTherapist, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(store.questions) != 0 {
		t.Fatalf("expected question removed")
	}
}
