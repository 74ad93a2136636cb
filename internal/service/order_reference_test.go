package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderReference(t *testing.T) {
	pattern := regexp.MustCompile(`^PN-\d{8}-[0-9A-F]{6}$`)

	ref := newOrderReference()
	assert.Regexp(t, pattern, ref)

	// References must not collide across calls.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		r := newOrderReference()
		assert.Regexp(t, pattern, r)
		assert.False(t, seen[r], "duplicate reference %s", r)
		seen[r] = true
	}
}
