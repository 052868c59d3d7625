package visitortoken

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

// scriptedSource returns queued values, reduced modulo n.
type scriptedSource struct {
	values []int
	calls  []int
}

func (s *scriptedSource) IntN(n int) int {
	s.calls = append(s.calls, n)
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v % n
}

func TestRandomString(t *testing.T) {
	src := NewSeededSource(1)
	got, err := RandomString(src, "AB", 1000)
	if err != nil {
		t.Fatalf("RandomString: %v", err)
	}
	if len(got) != 1000 {
		t.Fatalf("expected length 1000, got %d", len(got))
	}
	if strings.Trim(got, "AB") != "" {
		t.Errorf("unexpected symbols in %q", got)
	}
	if !strings.Contains(got, "A") || !strings.Contains(got, "B") {
		t.Errorf("expected both symbols to appear")
	}
}

func TestRandomString_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		length   int
		want     string
		wantErr  bool
	}{
		{"empty alphabet zero length", "", 0, "", false},
		{"empty alphabet positive length", "", 5, "", true},
		{"negative length", "AB", -1, "", true},
		{"single symbol", "x", 4, "xxxx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RandomString(NewSeededSource(7), tt.alphabet, tt.length)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRandomString_Runes(t *testing.T) {
	src := &scriptedSource{values: []int{0, 1, 2, 1}}
	got, err := RandomString(src, "αβγ", 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != "αβγβ" {
		t.Errorf("expected αβγβ, got %q", got)
	}
	if utf8.RuneCountInString(got) != 4 {
		t.Errorf("expected 4 runes, got %d", utf8.RuneCountInString(got))
	}
	for _, n := range src.calls {
		if n != 3 {
			t.Errorf("expected draws over 3 symbols, got IntN(%d)", n)
		}
	}
}

func TestRandomString_Deterministic(t *testing.T) {
	a, _ := RandomString(NewSeededSource(42), IdentifierAlphabet, IdentifierLength)
	b, _ := RandomString(NewSeededSource(42), IdentifierAlphabet, IdentifierLength)
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
	c, _ := RandomString(NewSeededSource(43), IdentifierAlphabet, IdentifierLength)
	if a == c {
		t.Errorf("different seeds produced the same id %q", a)
	}
}

func TestLockedSource_Concurrent(t *testing.T) {
	src := &lockedSource{src: NewSeededSource(3)}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if v := src.IntN(10); v < 0 || v >= 10 {
					t.Errorf("IntN(10) = %d", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
