package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	helpers "blogsync/internal/utils/helpres"
)

// LogsHandler читает JSON-логи из папки lumberjack:
// текущий app.log и ротированные app-<timestamp>.log[.gz].
// Нужен, чтобы разбирать судьбу вебхуков по page_id без доступа к серверу.
type LogsHandler struct {
	dir       string
	retention int
	now       func() time.Time
}

func NewLogsHandler(dir string) *LogsHandler {
	return &LogsHandler{dir: dir, retention: 14, now: time.Now}
}

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type logsResponse struct {
	Day        string            `json:"day"`
	Items      []json.RawMessage `json:"items"`
	NextCursor int               `json:"nextCursor"`
}

// Days godoc
// @Summary Дни, за которые есть логи (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} string
// @Router /api/admin/logs/days [get]
func (h *LogsHandler) Days(w http.ResponseWriter, r *http.Request) {
	oldest := h.now().AddDate(0, 0, -(h.retention - 1)).Format(time.DateOnly)
	seen := map[string]bool{}
	eachLine(h.filesForDay(oldest), func(raw []byte) bool {
		if d := lineDay(raw); d != "" && d >= oldest {
			seen[d] = true
		}
		return true
	})

	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, days)
}

// Search godoc
// @Summary Логи за день с фильтрами (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param day query string true "Дата (YYYY-MM-DD)"
// @Param level query string false "Уровни через запятую: info,warn,error"
// @Param page_id query string false "ID страницы Notion"
// @Param q query string false "Подстрока"
// @Param limit query int false "Лимит (по умолчанию 200, максимум 1000)"
// @Param cursor query int false "Сколько строк пропустить"
// @Success 200 {object} logsResponse
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/logs [get]
func (h *LogsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day := q.Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "bad day")
		return
	}

	levels := upperSet(q.Get("level"))
	pageID := strings.TrimSpace(q.Get("page_id"))
	needle := strings.ToLower(strings.TrimSpace(q.Get("q")))
	limit := clampAtoi(q.Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(q.Get("cursor"), 0, 0, 10_000_000)

	resp := logsResponse{Day: day, Items: []json.RawMessage{}, NextCursor: cursor}
	found := cursor > 0
	line := 0
	eachLine(h.filesForDay(day), func(raw []byte) bool {
		line++
		if line <= cursor {
			return true
		}
		resp.NextCursor = line

		var entry struct {
			Time   string `json:"time"`
			Level  string `json:"level"`
			PageID string `json:"page_id"`
		}
		if json.Unmarshal(raw, &entry) != nil {
			return true
		}
		// файлы делятся по размеру, а не по дням
		if !strings.HasPrefix(entry.Time, day) {
			return true
		}
		found = true
		if len(levels) > 0 && !levels[strings.ToUpper(entry.Level)] {
			return true
		}
		if pageID != "" && entry.PageID != pageID {
			return true
		}
		if needle != "" && !strings.Contains(strings.ToLower(string(raw)), needle) {
			return true
		}

		resp.Items = append(resp.Items, append(json.RawMessage(nil), raw...))
		return len(resp.Items) < limit
	})

	if !found {
		helpers.Error(w, http.StatusNotFound, "no logs for this day")
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// filesForDay: файлы, где могут быть строки за day, в хронологическом порядке.
// lumberjack называет архив временем ротации (UTC), и в нём лежат строки до этого
// момента, поэтому нужны все архивы, ротированные не раньше day, и текущий app.log.
// Запас в сутки покрывает разницу между UTC в имени и локальным временем в строках.
func (h *LogsHandler) filesForDay(day string) []string {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		return nil
	}
	from := day
	if t, err := time.Parse(time.DateOnly, day); err == nil {
		from = t.AddDate(0, 0, -1).Format(time.DateOnly)
	}

	var rotated []string
	current := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "app.log" {
			current = filepath.Join(h.dir, name)
			continue
		}
		if rotatedDay(name) >= from {
			rotated = append(rotated, filepath.Join(h.dir, name))
		}
	}
	// имена lumberjack содержат время ротации, поэтому сортировка хронологическая
	sort.Strings(rotated)
	if current != "" {
		rotated = append(rotated, current)
	}
	return rotated
}

// rotatedDay: дата из имени app-2006-01-02T15-04-05.000.log[.gz], "" для чужих файлов.
func rotatedDay(name string) string {
	if !strings.HasSuffix(name, ".log") && !strings.HasSuffix(name, ".log.gz") {
		return ""
	}
	rest, ok := strings.CutPrefix(name, "app-")
	if !ok || len(rest) < len(time.DateOnly) || !reDay.MatchString(rest[:len(time.DateOnly)]) {
		return ""
	}
	return rest[:len(time.DateOnly)]
}

func lineDay(raw []byte) string {
	var entry struct {
		Time string `json:"time"`
	}
	if json.Unmarshal(raw, &entry) != nil || len(entry.Time) < len(time.DateOnly) {
		return ""
	}
	if d := entry.Time[:len(time.DateOnly)]; reDay.MatchString(d) {
		return d
	}
	return ""
}

// eachLine читает файлы по порядку, пока handle возвращает true.
func eachLine(files []string, handle func([]byte) bool) {
	for _, path := range files {
		if !scanFile(path, handle) {
			return
		}
	}
}

func scanFile(path string, handle func([]byte) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gz.Close()
		reader = gz
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false
		}
	}
	return true
}

func upperSet(csv string) map[string]bool {
	out := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out[strings.ToUpper(p)] = true
		}
	}
	return out
}

func clampAtoi(s string, def, min, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
