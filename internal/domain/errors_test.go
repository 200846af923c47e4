package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/msomdec/bump-journal/internal/domain"
)

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := fmt.Errorf("create: %w", domain.Invalid("title", "title is required"))

	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatal("expected ValidationError to match ErrInvalidInput")
	}

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected errors.As to find the ValidationError")
	}
	if ve.Field != "title" {
		t.Fatalf("expected field title, got %q", ve.Field)
	}
}

func TestStoreFailure(t *testing.T) {
	if err := domain.StoreFailure("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	if err := domain.StoreFailure("get", domain.ErrNotFound); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound to pass through, got %v", err)
	}

	cause := errors.New("disk I/O error")
	err := domain.StoreFailure("list milestones", cause)

	var se *domain.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected StoreError, got %T", err)
	}
	if se.Op != "list milestones" {
		t.Fatalf("expected op 'list milestones', got %q", se.Op)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected StoreError to unwrap to its cause")
	}

	if again := domain.StoreFailure("outer", err); again != err {
		t.Fatal("expected an existing StoreError not to be wrapped twice")
	}
}

func TestMilestoneInput_Validate(t *testing.T) {
	date, _ := domain.ParseDate("2024-03-10")

	tests := []struct {
		name  string
		in    domain.MilestoneInput
		field string
	}{
		{"missing title", domain.MilestoneInput{Date: date}, "title"},
		{"blank title", domain.MilestoneInput{Title: "   ", Date: date}, "title"},
		{"missing date", domain.MilestoneInput{Title: "Heard the heartbeat"}, "date"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}

	ok := domain.MilestoneInput{Title: "  First ultrasound ", Date: date}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok.Title != "First ultrasound" {
		t.Fatalf("expected trimmed title, got %q", ok.Title)
	}
}
