package validator

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

type entry struct {
	OwnerID uuid.UUID `validate:"uuid_required"`
	Name    string    `validate:"required,max=10"`
	Amount  int       `validate:"required,gt=0,lte=100"`
	Kind    string    `validate:"required,oneof=unit"`
}

func validEntry() entry {
	return entry{OwnerID: uuid.New(), Name: "ok", Amount: 5, Kind: "unit"}
}

func TestValidateStructPasses(t *testing.T) {
	if errs := ValidateStruct(validEntry()); len(errs) != 0 {
		t.Fatalf("valid struct rejected: %v", errs[0])
	}
}

func TestValidateStructMessages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *entry)
		want   string
	}{
		{"missing name", func(e *entry) { e.Name = "" }, "name is required"},
		{"overlong name", func(e *entry) { e.Name = strings.Repeat("a", 11) }, "name must not exceed 10 characters"},
		{"zero amount", func(e *entry) { e.Amount = 0 }, "amount is required"},
		{"negative amount", func(e *entry) { e.Amount = -1 }, "amount must be greater than 0"},
		{"amount above bound", func(e *entry) { e.Amount = 101 }, "amount must not exceed 100"},
		{"unknown kind", func(e *entry) { e.Kind = "kg" }, "kind must be one of: unit"},
		{"nil owner", func(e *entry) { e.OwnerID = uuid.Nil }, "ownerid is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)

			errs := ValidateStruct(e)
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			if got := errs[0].Error(); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateStructCountsCharacters(t *testing.T) {
	e := validEntry()
	e.Name = strings.Repeat("é", 10) // 10 characters, 20 bytes

	if errs := ValidateStruct(e); len(errs) != 0 {
		t.Fatalf("multibyte name within the bound rejected: %v", errs[0])
	}
}
