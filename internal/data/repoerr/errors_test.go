package repoerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, ErrConflict},
		{"pg fk", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), ErrInvalidReference},
		{"sqlite unique", errors.New("UNIQUE constraint failed: group_memberships.group_id"), ErrConflict},
	}
	for _, tc := range cases {
		got := Classify("op", tc.err)
		if !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v in chain, got %v", tc.name, tc.want, got)
		}
	}
	if Classify("op", nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	other := Classify("op", errors.New("boom"))
	if errors.Is(other, ErrNotFound) || errors.Is(other, ErrConflict) {
		t.Fatalf("unexpected classification: %v", other)
	}
}
