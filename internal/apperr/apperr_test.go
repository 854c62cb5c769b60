package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("disk I/O error")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "direct", err: New(KindForbidden, "nope"), want: KindForbidden},
		{name: "wrapped", err: fmt.Errorf("delete: %w", Wrap(KindUnavailable, "store unavailable", cause)), want: KindUnavailable},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: KindUnavailable},
		{name: "plain", err: cause, want: KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("get task: %w", Newf(KindNotFound, "task %s not found", "abc"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is to match NOT_FOUND sentinel")
	}
	if errors.Is(err, New(KindForbidden, "forbidden")) {
		t.Fatal("NOT_FOUND must not match FORBIDDEN")
	}
}

func TestWrapHidesCauseText(t *testing.T) {
	cause := errors.New("near \"SELEC\": syntax error")
	err := Wrap(KindUnavailable, "store unavailable", cause)
	if err.Error() != "store unavailable" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should stay reachable through Unwrap")
	}
}

func TestHTTPStatus(t *testing.T) {
	want := map[Kind]int{
		KindInvalidArgument: http.StatusBadRequest,
		KindNotFound:        http.StatusNotFound,
		KindForbidden:       http.StatusForbidden,
		KindConflict:        http.StatusConflict,
		KindUnavailable:     http.StatusServiceUnavailable,
		KindUnauthenticated: http.StatusUnauthorized,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range want {
		if got := HTTPStatus(kind); got != status {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, status)
		}
	}
}
