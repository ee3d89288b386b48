package detector_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mint/internal/adapters/detector"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/mint/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newSwitch(t *testing.T, detected detector.OutputMode) (*detector.Switch, *mocks.MockRenderer, *mocks.MockRenderer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	fallback := mocks.NewMockRenderer(ctrl)
	interactive := mocks.NewMockRenderer(ctrl)

	sw := detector.NewSwitch(fallback, func(context.Context) ports.Renderer {
		return interactive
	}).WithDetect(func() detector.OutputMode { return detected })

	return sw, fallback, interactive
}

func TestSwitch_Select(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.OutputMode
		flag     string
		wantTUI  bool
	}{
		{name: "auto on a terminal", detected: detector.ModeTUI, flag: "auto", wantTUI: true},
		{name: "auto without a terminal", detected: detector.ModeLinear, flag: "", wantTUI: false},
		{name: "forced tui", detected: detector.ModeLinear, flag: "tui", wantTUI: true},
		{name: "forced linear", detected: detector.ModeTUI, flag: "linear", wantTUI: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw, fallback, interactive := newSwitch(t, tt.detected)

			want := fallback
			if tt.wantTUI {
				want = interactive
			}
			want.EXPECT().OnTaskStart("s1", "", "build", gomock.Any())

			restore, err := sw.Select(context.Background(), tt.flag)
			require.NoError(t, err)
			sw.OnTaskStart("s1", "", "build", time.Now())

			restore()
			fallback.EXPECT().OnTaskLog("s1", []byte("after"))
			sw.OnTaskLog("s1", []byte("after"))
		})
	}
}

func TestSwitch_ForwardsLifecycle(t *testing.T) {
	sw, fallback, _ := newSwitch(t, detector.ModeLinear)
	ctx := context.Background()
	end := time.Now()

	gomock.InOrder(
		fallback.EXPECT().Start(ctx).Return(nil),
		fallback.EXPECT().OnPlanEmit([]string{"build"}, map[string][]string{}, []string{"build"}),
		fallback.EXPECT().OnTaskComplete("s1", end, nil, true),
		fallback.EXPECT().Stop().Return(nil),
		fallback.EXPECT().Wait().Return(nil),
	)

	require.NoError(t, sw.Start(ctx))
	sw.OnPlanEmit([]string{"build"}, map[string][]string{}, []string{"build"})
	sw.OnTaskComplete("s1", end, nil, true)
	require.NoError(t, sw.Stop())
	require.NoError(t, sw.Wait())
}

func TestSwitch_InvalidMode(t *testing.T) {
	sw, _, _ := newSwitch(t, detector.ModeTUI)

	_, err := sw.Select(context.Background(), "fancy")

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidOutputMode.Error())
}
