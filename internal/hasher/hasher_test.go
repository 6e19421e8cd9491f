package hasher

import (
	"bytes"
	"strings"
	"testing"
)

func TestSum_MatchesReader(t *testing.T) {
	data := bytes.Repeat([]byte("gameboy"), 10_000)
	want := Sum(data)
	got, err := SumReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("SumReader = %s, Sum = %s", got, want)
	}
	if len(got) != 16 {
		t.Errorf("digest length %d, want 16", len(got))
	}
}

func TestSum_KnownValue(t *testing.T) {
	// xxHash64 of the empty input with seed 0.
	if got := Sum(nil); got != "ef46db3751d8e999" {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestETag(t *testing.T) {
	tag := ETag(Sum([]byte("x")))
	if !strings.HasPrefix(tag, `"`) || !strings.HasSuffix(tag, `"`) || len(tag) != 18 {
		t.Errorf("ETag = %s", tag)
	}
}
