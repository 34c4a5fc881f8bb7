package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeDependency, cause, "load product")

	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if got := err.Error(); got != "DEPENDENCY_ERROR: load product" {
		t.Fatalf("unexpected error string: %q", got)
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeStateConflict, "entry already approved")
	wrapped := fmt.Errorf("approve production: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeValidation, fmt.Errorf("qty must be positive"), "route order")
	d := Dump(err)
	if d.Code != CodeValidation {
		t.Fatalf("unexpected code: %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}

func TestDumpCapturesPostgresDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "ux_sales_order_id",
		TableName:      "sales",
		Message:        "duplicate key value violates unique constraint",
	}
	d := Dump(Wrap(CodeDependency, pgErr, "create sale"))
	if d.PGCode != "23505" || d.PGConstraint != "ux_sales_order_id" || d.PGTable != "sales" {
		t.Fatalf("postgres diagnostics not captured: %+v", d)
	}
}
