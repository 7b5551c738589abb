package x11

import (
	"errors"
	"reflect"
	"testing"
)

func TestImageBands(t *testing.T) {
	tests := []struct {
		name                  string
		height, stride, limit int
		want                  []band
	}{
		{"fits", 24, 96, 1 << 18, []band{{0, 24}}},
		{"split", 10, 100, 350, []band{{0, 3}, {3, 3}, {6, 3}, {9, 1}}},
		{"row larger than limit", 3, 1000, 10, []band{{0, 1}, {1, 1}, {2, 1}}},
		{"empty", 0, 0, 100, []band{{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := imageBands(tt.height, tt.stride, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("imageBands = %v, want %v", got, tt.want)
			}
		})
	}
}

type stubCookie struct {
	err     error
	checked *int
}

func (s stubCookie) Check() error {
	*s.checked++
	return s.err
}

func TestCookies_ChecksEveryPart(t *testing.T) {
	n := 0
	first := errors.New("first")
	parts := cookies{
		stubCookie{checked: &n},
		stubCookie{err: first, checked: &n},
		stubCookie{err: errors.New("second"), checked: &n},
	}
	if err := parts.Check(); err != first {
		t.Fatalf("Check() = %v, want the first failure", err)
	}
	if n != 3 {
		t.Fatalf("checked %d parts, want 3", n)
	}
}
