package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReceiptNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^WP-\d{8}-[A-Z0-9]{6}$`)

	number := GenerateReceiptNumber()
	assert.Regexp(t, pattern, number)
	assert.Contains(t, number, time.Now().Format("20060102"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "simple title", title: "Morning Meditation", expected: "morning-meditation"},
		{name: "punctuation", title: "Breathe, Relax & Heal!", expected: "breathe-relax-heal"},
		{name: "extra whitespace", title: "  Yoga   for Beginners  ", expected: "yoga-for-beginners"},
		{name: "already a slug", title: "sound-healing-101", expected: "sound-healing-101"},
		{name: "trailing punctuation", title: "What is Reiki?", expected: "what-is-reiki"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}
