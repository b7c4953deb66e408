package naming

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/allocman/model/allocator"
	"pgregory.net/rapid"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		candidate   string
		expect      bool
	}{
		{description: "simple", candidate: "RoundRobin", expect: true},
		{description: "underscore prefix", candidate: "_first", expect: true},
		{description: "digits after first", candidate: "Fifo2", expect: true},
		{description: "single letter", candidate: "x", expect: true},
		{description: "case sensitive keyword", candidate: "Func", expect: true},
		{description: "empty", candidate: "", expect: false},
		{description: "leading digit", candidate: "2phase", expect: false},
		{description: "whitespace", candidate: "round robin", expect: false},
		{description: "dash", candidate: "round-robin", expect: false},
		{description: "dot", candidate: "alloc.go", expect: false},
		{description: "path separator", candidate: "../etc", expect: false},
		{description: "non ascii letter", candidate: "alocação", expect: false},
		{description: "keyword", candidate: "func", expect: false},
		{description: "keyword package", candidate: "package", expect: false},
		{description: "too long", candidate: strings.Repeat("a", MaxLength+1), expect: false},
		{description: "max length", candidate: strings.Repeat("a", MaxLength), expect: true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, Validate(tc.candidate), tc.description)
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("Fifo"))
	err := Check("1st")
	assert.True(t, errors.Is(err, allocator.ErrInvalidName))
}

func TestValidate_AcceptsIdentifiers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		candidate := rapid.StringMatching(`[A-Z_][A-Za-z0-9_]{0,30}`).Draw(t, "candidate")
		if !Validate(candidate) {
			t.Fatalf("expected %q to be accepted", candidate)
		}
	})
}

func TestValidate_RejectsLeadingDigit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		candidate := rapid.StringMatching(`[0-9][A-Za-z0-9_]{0,30}`).Draw(t, "candidate")
		if Validate(candidate) {
			t.Fatalf("expected %q to be rejected", candidate)
		}
	})
}

func TestValidate_RejectsPunctuation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-z][a-z0-9_]{0,10}`).Draw(t, "prefix")
		symbol := rapid.SampledFrom([]string{" ", "\t", "-", ".", "/", "$", "+", "!", "\n", "é"}).Draw(t, "symbol")
		suffix := rapid.StringMatching(`[a-z0-9_]{0,10}`).Draw(t, "suffix")
		candidate := prefix + symbol + suffix
		if Validate(candidate) {
			t.Fatalf("expected %q to be rejected", candidate)
		}
	})
}
