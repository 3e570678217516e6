package logger

import (
	"errors"
	"testing"
)

func TestNormalizeBareError(t *testing.T) {
	err := errors.New("boom")
	got := normalize([]any{err})
	if len(got) != 2 || got[0] != "error" || got[1] != err {
		t.Fatalf("normalize(err) = %v", got)
	}

	got = normalize([]any{"user_id", "u1", err})
	if len(got) != 4 || got[2] != "error" {
		t.Fatalf("normalize(kv, err) = %v", got)
	}

	kv := []any{"category", "team"}
	if got := normalize(kv); len(got) != 2 {
		t.Fatalf("even args should pass through, got %v", got)
	}
}

func TestLoggingBeforeInitDoesNotPanic(t *testing.T) {
	Info("not initialised yet", "k", "v")
	Init("test")
	Debug("initialised", "k", "v")
	Sync()
}
