package engine

import (
	"testing"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    digraph.Key
		wantErr bool
	}{
		{in: "a->b", want: digraph.Key{From: "a", To: "b"}},
		{in: "a -> b", want: digraph.Key{From: "a", To: "b"}},
		{in: "node_1->node_2", want: digraph.Key{From: "node_1", To: "node_2"}},
		{in: "ab", wantErr: true},
		{in: "->b", wantErr: true},
		{in: "a->", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKey(%q) should fail", tt.in)
				}
				if !errors.Is(err, errors.ErrCodeInvalidArgument) {
					t.Errorf("ParseKey(%q) error code = %v, want INVALID_ARGUMENT", tt.in, errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKeysEmpty(t *testing.T) {
	keys, err := ParseKeys(nil)
	if err != nil {
		t.Fatalf("ParseKeys(nil) error: %v", err)
	}
	if keys != nil {
		t.Errorf("ParseKeys(nil) = %v, want nil", keys)
	}
}

func TestParseWeights(t *testing.T) {
	weights, err := ParseWeights([]string{"a->b=3", "b -> c = 0"})
	if err != nil {
		t.Fatalf("ParseWeights() error: %v", err)
	}

	if got := weights[digraph.Key{From: "a", To: "b"}]; got != 3 {
		t.Errorf("weights[a->b] = %d, want 3", got)
	}
	if got, ok := weights[digraph.Key{From: "b", To: "c"}]; !ok || got != 0 {
		t.Errorf("weights[b->c] = %d (present=%v), want 0", got, ok)
	}
}

func TestParseWeightsInvalid(t *testing.T) {
	for _, in := range []string{"a->b", "a->b=x", "ab=3"} {
		if _, err := ParseWeights([]string{in}); err == nil {
			t.Errorf("ParseWeights(%q) should fail", in)
		}
	}
}
