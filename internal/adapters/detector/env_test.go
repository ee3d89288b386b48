package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/adapters/detector"
	"go.trai.ch/mint/internal/core/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		isTTY    bool
		ci       string
		expected detector.OutputMode
	}{
		{name: "terminal", isTTY: true, expected: detector.ModeTUI},
		{name: "pipe", isTTY: false, expected: detector.ModeLinear},
		{name: "CI=true forces linear mode", isTTY: true, ci: "true", expected: detector.ModeLinear},
		{name: "CI=1 forces linear mode", isTTY: true, ci: "1", expected: detector.ModeLinear},
		{name: "CI=false does not force linear", isTTY: true, ci: "false", expected: detector.ModeTUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.Detect(tt.isTTY, tt.ci))
		})
	}
}

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, detector.ModeLinear, detector.DetectEnvironment())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		flag     string
		expected detector.OutputMode
	}{
		{flag: "", expected: detector.ModeAuto},
		{flag: "auto", expected: detector.ModeAuto},
		{flag: "tui", expected: detector.ModeTUI},
		{flag: "linear", expected: detector.ModeLinear},
		{flag: "ci", expected: detector.ModeLinear},
	}

	for _, tt := range tests {
		t.Run("flag "+tt.flag, func(t *testing.T) {
			mode, err := detector.ParseMode(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}

	t.Run("unknown flag", func(t *testing.T) {
		_, err := detector.ParseMode("fancy")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInvalidOutputMode.Error())
	})
}

func TestResolveMode(t *testing.T) {
	assert.Equal(t, detector.ModeTUI, detector.ResolveMode(detector.ModeTUI, detector.ModeAuto))
	assert.Equal(t, detector.ModeLinear, detector.ResolveMode(detector.ModeLinear, detector.ModeAuto))
	assert.Equal(t, detector.ModeLinear, detector.ResolveMode(detector.ModeTUI, detector.ModeLinear))
	assert.Equal(t, detector.ModeTUI, detector.ResolveMode(detector.ModeLinear, detector.ModeTUI))
}
