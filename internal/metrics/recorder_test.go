package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("collect_posts", time.Millisecond)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("collect_posts", ResultSuccess)
	r.IncBuildOutcome("success")
	r.AddPostsRendered(3)
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncStageResult("render_posts", ResultSuccess)
	r.IncStageResult("render_posts", ResultSuccess)
	r.IncStageResult("write_feed", ResultFatal)
	r.IncBuildOutcome("failed")
	r.AddPostsRendered(5)
	r.ObserveStageDuration("render_posts", 10*time.Millisecond)
	r.ObserveBuildDuration(20 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["blogsmith_stage_results_total"])
	assert.True(t, names["blogsmith_build_outcomes_total"])
	assert.True(t, names["blogsmith_stage_duration_seconds"])
	assert.True(t, names["blogsmith_build_duration_seconds"])

	assert.InDelta(t, 5, testutil.ToFloat64(r.postsRendered), 0.001)
}
