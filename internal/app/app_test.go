package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstattrade/internal/config"
	"gstattrade/internal/dataprocessing"
	"gstattrade/internal/fetcher"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/loader"
	"gstattrade/internal/operations"
	"gstattrade/internal/shared/testutil"
)

func departmentRows(header string) [][]string {
	return [][]string{
		{header},
		{"", "جدول 1.1 الصادرات السلعية حسب الأقسام"},
		{"الفهرس", "وصف القسم", "الربع الثالث1", "الربع الثاني", "الربع الثالث 2"},
		{"", "", "2022", "2023", "2023"},
		{"", "", "مليون ريال", "مليون ريال", "مليون ريال"},
		{"1", "الحيوانات الحية والمنتجات الحيوانية", "1200", "1100", "1300"},
		{"2", "منتجات نباتية", "900", "950", "1000"},
		{"", "الإجمالي", "2100", "2050", "2300"},
	}
}

func countryRows() [][]string {
	return [][]string{
		{},
		{"", "الصادرات غير البترولية حسب الدول - الربع الثالث 2023"},
		{"", "الدولة", "الحيوانات الحية والمنتجات الحيوانية", "الإجمالي"},
		{"", "الصين", "100", "100"},
		{"", "الهند", "50", "50"},
	}
}

func release(header string) map[string][][]string {
	return map[string][][]string{"1.1": departmentRows(header), "1.4": countryRows()}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Telemetry.TraceExporter = "none"
	cfg.Telemetry.MetricExporter = "prometheus"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	a, err := New(cfg, infrastructure.NewLogger(&logs, "debug"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a, &logs
}

func rowCount(t *testing.T, a *Application, table string) int64 {
	t.Helper()
	store, err := loader.OpenStore(context.Background(), a.Paths.Database, a.Config.Database.Schema)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.RowCount(context.Background(), table)
	require.NoError(t, err)
	return n
}

func TestLoadStepsLoadAndArchive(t *testing.T) {
	a, logs := newTestApp(t, testConfig(t))
	testutil.WriteWorkbook(t, a.Paths.DownloadDir, "ITR Q32023A.xlsx", release(""))

	state, err := a.Execute(context.Background(), a.LoadSteps())
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, state.Status)

	assert.EqualValues(t, 2, rowCount(t, a, "Exports_by_departments"))
	assert.EqualValues(t, 2, rowCount(t, a, "Non_oil_exports_by_country_and_major_divisions"))
	assert.FileExists(t, filepath.Join(a.Paths.ArchiveDir, "ITR Q32023A.xlsx"))
	assert.NoFileExists(t, filepath.Join(a.Paths.DownloadDir, "ITR Q32023A.xlsx"))
	assert.FileExists(t, a.Paths.AuditDB)
	assert.Contains(t, logs.String(), `"run_id":"`+state.ID+`"`)

	state, err = a.Execute(context.Background(), a.LoadSteps())
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, state.Status)
	assert.Equal(t, operations.StepStatusCompleted, state.GetStep(StepDiscover).Status)
	assert.Equal(t, operations.StepStatusSkipped, state.GetStep(StepTransform).Status)
	assert.Contains(t, logs.String(), "No new files")
}

func TestFailedLoadKeepsWorkbooks(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	// a named first header cell keeps the section number column from
	// being recognized, so the department table has no natural key
	path := testutil.WriteWorkbook(t, a.Paths.DownloadDir, "ITR Q32023A.xlsx", release("رقم"))

	state, err := a.Execute(context.Background(), a.LoadSteps())
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrNaturalKeyMissing)
	assert.Equal(t, operations.OperationStatusFailed, state.Status)
	assert.Equal(t, operations.StepStatusFailed, state.GetStep(StepLoad).Status)
	assert.Equal(t, operations.StepStatusSkipped, state.GetStep(StepArchive).Status)

	assert.FileExists(t, path)
	assert.EqualValues(t, 2, rowCount(t, a, "Non_oil_exports_by_country_and_major_divisions"))
}

func writeTruncated(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04truncated"), 0o644))
	return path
}

func TestUnreadableWorkbookIsNotArchived(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	testutil.WriteWorkbook(t, a.Paths.DownloadDir, "ITR Q32023A.xlsx", release(""))
	bad := writeTruncated(t, a.Paths.DownloadDir, "ITR Q12024A.xlsx")

	state, err := a.Execute(context.Background(), a.LoadSteps())
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, state.Status)

	assert.FileExists(t, filepath.Join(a.Paths.ArchiveDir, "ITR Q32023A.xlsx"))
	assert.FileExists(t, bad)
	assert.False(t, a.Archive.IsArchived("ITR Q12024A.xlsx"))
}

func TestNoReadableWorkbookFailsRun(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	bad := writeTruncated(t, a.Paths.DownloadDir, "ITR Q12024A.xlsx")

	state, err := a.Execute(context.Background(), a.LoadSteps())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataprocessing.ErrNoInputFiles)
	assert.Equal(t, operations.OperationStatusFailed, state.Status)
	assert.Equal(t, operations.StepStatusFailed, state.GetStep(StepTransform).Status)
	assert.Equal(t, operations.StepStatusSkipped, state.GetStep(StepArchive).Status)

	assert.FileExists(t, bad)
	assert.False(t, a.Archive.IsArchived("ITR Q12024A.xlsx"))
}

func TestRunStepsFetchesThenLoads(t *testing.T) {
	payload := testutil.WorkbookBytes(t, release(""))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/ITR Q42021A.xlsx" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer ts.Close()

	cfg := testConfig(t)
	cfg.Fetch.URLTemplate = ts.URL + "/files/ITR%20Q{quarter}{year}A.xlsx"
	cfg.Fetch.SeedURLs = nil
	cfg.Fetch.Backoff = time.Millisecond
	cfg.Fetch.RPS = 1000
	clock := func() time.Time { return time.Date(2021, time.December, 1, 0, 0, 0, 0, time.UTC) }
	a, _ := newTestApp(t, cfg, WithFetcherOptions(fetcher.WithClock(clock)))

	state, err := a.Execute(context.Background(), a.RunSteps(false))
	require.NoError(t, err)

	report, ok := operations.ContextValue[*fetcher.FetchReport](state, KeyFetchReport)
	require.True(t, ok)
	assert.Equal(t, []string{"ITR Q42021A.xlsx"}, report.Downloaded)
	assert.FileExists(t, filepath.Join(a.Paths.ArchiveDir, "ITR Q42021A.xlsx"))

	state, err = a.Execute(context.Background(), a.RunSteps(false))
	require.NoError(t, err)
	report, _ = operations.ContextValue[*fetcher.FetchReport](state, KeyFetchReport)
	assert.Equal(t, []string{"ITR Q42021A.xlsx"}, report.Skipped)
	assert.Equal(t, operations.StepStatusSkipped, state.GetStep(StepLoad).Status)
}

func TestRunStepsSkipFetch(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	steps := a.RunSteps(true)
	require.Len(t, steps, 4)
	assert.Equal(t, StepDiscover, steps[0].ID())
	assert.Len(t, a.RunSteps(false), 5)
}

func TestInspectLeavesStoreUntouched(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	path := testutil.WriteWorkbook(t, t.TempDir(), "r.xlsx", release(""))

	result, err := a.Inspect(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Output.Rows("1.1"))
	assert.Equal(t, 2, result.Output.Rows("1.4"))

	_, err = os.Stat(a.Paths.Database)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, path)
}

func TestStatusServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.MetricsAddr = "127.0.0.1:0"
	a, _ := newTestApp(t, cfg)
	require.NoError(t, a.StartStatusServer())
	require.NotEmpty(t, a.StatusAddr())

	testutil.WriteWorkbook(t, a.Paths.DownloadDir, "ITR Q32023A.xlsx", release(""))
	_, err := a.Execute(context.Background(), a.LoadSteps())
	require.NoError(t, err)

	resp, err := http.Get("http://" + a.StatusAddr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "gstat_sheets_transformed_total")
	assert.Contains(t, string(body), "gstat_rows_loaded_total")

	resp, err = http.Get("http://" + a.StatusAddr() + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusServerDisabled(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	require.NoError(t, a.StartStatusServer())
	assert.Empty(t, a.StatusAddr())
}
