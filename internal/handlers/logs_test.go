package handlers

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogs(t *testing.T) *LogsHandler {
	t.Helper()
	dir := t.TempDir()

	current := strings.Join([]string{
		`{"time":"2026-10-17T23:59:00.000+0000","level":"INFO","message":"вчера","page_id":"p1"}`,
		`{"time":"2026-10-18T10:00:00.000+0000","level":"INFO","message":"Вебхук обработан"}`,
		`not json`,
		`{"time":"2026-10-18T10:00:01.000+0000","level":"ERROR","message":"Ошибка загрузки блоков","page_id":"p1"}`,
		`{"time":"2026-10-18T10:00:02.000+0000","level":"WARN","message":"Загрузка в CDN не удалась","page_id":"p2"}`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte(current), 0o644))

	f, err := os.Create(filepath.Join(dir, "app-2026-10-18T09-00-00.000.log.gz"))
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(`{"time":"2026-10-18T08:59:00.000+0000","level":"INFO","message":"Пост отрендерен","page_id":"p1"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	h := NewLogsHandler(dir)
	h.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return h
}

func searchLogs(t *testing.T, h *LogsHandler, query string) (int, logsResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Search(rr, httptest.NewRequest(http.MethodGet, "/api/admin/logs?"+query, nil))

	var body struct {
		Data logsResponse `json:"data"`
	}
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr.Code, body.Data
}

func TestLogs_FilterByPage(t *testing.T) {
	h := writeLogs(t)

	code, resp := searchLogs(t, h, "day=2026-10-18&page_id=p1")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Items, 2)
	assert.Contains(t, string(resp.Items[0]), "Пост отрендерен", "ротированный файл читается первым")
	assert.Contains(t, string(resp.Items[1]), "Ошибка загрузки блоков")
}

func TestLogs_LevelQueryAndLimit(t *testing.T) {
	h := writeLogs(t)

	_, resp := searchLogs(t, h, "day=2026-10-18&level=warn,error")
	assert.Len(t, resp.Items, 2)

	_, resp = searchLogs(t, h, "day=2026-10-18&q=cdn")
	require.Len(t, resp.Items, 1)

	_, first := searchLogs(t, h, "day=2026-10-18&limit=1")
	require.Len(t, first.Items, 1)
	_, next := searchLogs(t, h, "day=2026-10-18&limit=1&cursor="+jsonInt(first.NextCursor))
	require.Len(t, next.Items, 1)
	assert.NotEqual(t, string(first.Items[0]), string(next.Items[0]))
}

func TestLogs_BadAndMissingDay(t *testing.T) {
	h := writeLogs(t)

	code, _ := searchLogs(t, h, "day=18.10.2026")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = searchLogs(t, h, "day=2026-01-01")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLogs_Days(t *testing.T) {
	h := writeLogs(t)
	rr := httptest.NewRecorder()
	h.Days(rr, httptest.NewRequest(http.MethodGet, "/api/admin/logs/days", nil))
	assert.JSONEq(t, `{"data":["2026-10-17","2026-10-18"]}`, rr.Body.String())
}

func TestLogs_PastDay(t *testing.T) {
	h := writeLogs(t)

	code, resp := searchLogs(t, h, "day=2026-10-17&page_id=p1")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Items, 1)
	assert.Contains(t, string(resp.Items[0]), "вчера")

	// архив ротирован уже на следующий день, но хранит строки за 17-е
	backup := `{"time":"2026-10-17T22:00:00.000+0000","level":"WARN","message":"Повтор загрузки","page_id":"p1"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "app-2026-10-18T00-00-05.000.log"), []byte(backup), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "app-2026-10-10T00-00-00.000.log"),
		[]byte(`{"time":"2026-10-09T10:00:00.000+0000","level":"INFO","message":"старое"}`+"\n"), 0o644))

	code, resp = searchLogs(t, h, "day=2026-10-17&page_id=p1")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Items, 2)
	assert.Contains(t, string(resp.Items[0]), "Повтор загрузки")
	assert.Contains(t, string(resp.Items[1]), "вчера")

	assert.Equal(t, []string{
		filepath.Join(h.dir, "app-2026-10-18T00-00-05.000.log"),
		filepath.Join(h.dir, "app-2026-10-18T09-00-00.000.log.gz"),
		filepath.Join(h.dir, "app.log"),
	}, h.filesForDay("2026-10-17"))
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
