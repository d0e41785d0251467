package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		suffix   string
		expected string
	}{
		{"single word", "Floor_Instructions.md", DefaultInstructionSuffix, "Floor"},
		{"underscores become spaces", "Exterior_Wall_Instructions.md", DefaultInstructionSuffix, "Exterior Wall"},
		{"empty suffix uses default", "Roof_Instructions.md", "", "Roof"},
		{"custom suffix", "Roof.guide.md", ".guide.md", "Roof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleFromFilename(tt.filename, tt.suffix))
		})
	}
}

func TestAnchorFromTitle(t *testing.T) {
	assert.Equal(t, "exterior-wall", AnchorFromTitle("Exterior Wall"))
	assert.Equal(t, "floor", AnchorFromTitle("Floor"))
	assert.Equal(t, "seed-home-7-roof", AnchorFromTitle("Seed Home 7 Roof"))
}
