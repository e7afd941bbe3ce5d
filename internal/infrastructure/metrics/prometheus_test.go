package metrics

import (
	"database/sql"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleBot/internal/domain"
)

func TestPrometheusCounters(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.SubmissionCompleted(domain.SourceInteractive, "created")
	p.SubmissionCompleted(domain.SourceInteractive, "created")
	p.SubmissionCompleted(domain.SourceForum, "duplicate")
	p.SelectionTransition(domain.StateExpired)
	p.MetadataFetched(120*time.Millisecond, nil)
	p.MetadataFetched(time.Second, errors.New("boom"))
	p.UpdateDBStats(sql.DBStats{OpenConnections: 4, InUse: 1, Idle: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(p.submissions.WithLabelValues("interactive", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.submissions.WithLabelValues("forum", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.transitions.WithLabelValues("expired")))
	assert.Equal(t, 2, testutil.CollectAndCount(p.fetches))
	assert.Equal(t, 4.0, testutil.ToFloat64(p.dbOpen))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.dbIdle))
}

func TestPrometheusHandler(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.SubmissionCompleted(domain.SourceForum, "created")

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `articlebot_submissions_total{outcome="created",source="forum"} 1`), string(body))
}
