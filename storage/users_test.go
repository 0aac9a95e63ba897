package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrUserNotFoundSurvivesWrapping(t *testing.T) {
	t.Parallel()

	// Handlers match lookup failures with errors.Is, so the sentinel
	// must stay matchable even once call sites add context.
	err := fmt.Errorf("login lookup: %w", ErrUserNotFound)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatal("wrapped ErrUserNotFound must still match via errors.Is")
	}
	if errors.Is(fmt.Errorf("other failure"), ErrUserNotFound) {
		t.Fatal("unrelated errors must not match ErrUserNotFound")
	}
}
