package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaced   out  ", "spaced-out"},
		{"Crème Brûlée!", "creme-brulee"},
		{"100% Legit?!", "100-legit"},
		{"already-a-slug", "already-a-slug"},
		{"___", ""},
		{"Tag / Category", "tag-category"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MakeSlug(tc.in), "input %q", tc.in)
	}
}

func TestMakeSlugAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	for _, in := range []string{"Üñïçødé Tîtlé", "<b>html</b> & entities", "混合 mixed 123"} {
		out := MakeSlug(in)
		assert.True(t, valid.MatchString(out), "slug %q from %q", out, in)
	}
}

func TestMakeSlugDeterministic(t *testing.T) {
	assert.Equal(t, MakeSlug("Some Title"), MakeSlug("Some Title"))
}
