package engine

import (
	"strconv"
	"strings"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// ParseKey parses an edge key of the form "u->v". Spaces around the arrow
// are tolerated.
func ParseKey(s string) (digraph.Key, error) {
	from, to, ok := strings.Cut(s, "->")
	if !ok {
		return digraph.Key{}, errors.New(errors.ErrCodeInvalidArgument,
			"invalid edge %q (expected form: u->v)", s)
	}
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return digraph.Key{}, errors.New(errors.ErrCodeInvalidArgument,
			"invalid edge %q (empty endpoint)", s)
	}
	return digraph.Key{From: from, To: to}, nil
}

// ParseKeys parses a slice of "u->v" edge keys.
func ParseKeys(ss []string) ([]digraph.Key, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	keys := make([]digraph.Key, 0, len(ss))
	for _, s := range ss {
		k, err := ParseKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseWeights parses weighted edge keys of the form "u->v=3".
func ParseWeights(ss []string) (map[digraph.Key]int64, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	weights := make(map[digraph.Key]int64, len(ss))
	for _, s := range ss {
		edge, val, ok := strings.Cut(s, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"invalid weight %q (expected form: u->v=3)", s)
		}
		k, err := ParseKey(edge)
		if err != nil {
			return nil, err
		}
		w, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"invalid weight value %q in %q", val, s)
		}
		weights[k] = w
	}
	return weights, nil
}
