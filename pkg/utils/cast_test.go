package utils

import (
	"errors"
	"testing"
)

func TestSafeCast(t *testing.T) {
	cast, err := SafeCast[int](12334)
	if err != nil {
		t.Fatal(err)
	}
	if cast != 12334 {
		t.Fatalf("cast = %d", cast)
	}

	if _, err = SafeCast[string](nil); !errors.Is(err, ErrNilParam) {
		t.Fatalf("err = %v, want nil param", err)
	}

	if _, err = SafeCast[string](42); err == nil {
		t.Fatal("expected type mismatch error")
	}
}
