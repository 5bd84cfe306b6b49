package nametag_api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-nametags/internal/auth"
	"ms-nametags/internal/config"
	"ms-nametags/internal/logger"
	"ms-nametags/internal/metrics"
	"ms-nametags/internal/models"
	"ms-nametags/internal/nametags/db"
	"ms-nametags/internal/nametags/nametag_api"
	nametags "ms-nametags/internal/nametags/service"
	"ms-nametags/internal/sheets"
)

const rosterCSV = "ConstituentId,First Name,Last Name,Class Year\nc1,Ada,Lovelace,1833\nc2,Grace,Hopper,1928\n,Edsger,Dijkstra,1956\nc4,Barbara,Liskov,1961\n"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	router http.Handler
	svc    *nametags.NametagService
	kv     *db.MemoryKV
}

func setupServer(t *testing.T, secret string) *testServer {
	t.Helper()
	log := logger.NewLoggerWithWriter(io.Discard)
	kv := db.NewMemoryKV()
	renderer, err := sheets.NewRenderer(20, true)
	require.NoError(t, err)
	m := metrics.New()
	svc := nametags.NewNametagService(
		db.NewEventRepository(kv, "nametag_events", log),
		sheets.NewPDFExporter(renderer),
		nil, m, log,
	)
	h := nametag_api.NewHandler(svc, log, 1<<20)
	return &testServer{router: nametag_api.NewRouter(h, m, config.AuthConfig{JWTSecret: secret}), svc: svc, kv: kv}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return s.do(t, method, path, r, "application/json")
}

func (s *testServer) upload(t *testing.T, path, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return s.do(t, http.MethodPost, path, &buf, mw.FormDataContentType())
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	s := setupServer(t, "")

	rr := s.doJSON(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestEventLifecycle(t *testing.T) {
	s := setupServer(t, "")

	rr := s.doJSON(t, http.MethodPost, "/api/events", `{"name":"Spring Gala"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var ev models.Event
	decode(t, rr, &ev)
	assert.Equal(t, "Spring Gala", ev.Name)

	rr = s.doJSON(t, http.MethodPost, "/api/events", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.doJSON(t, http.MethodPut, "/api/events/"+ev.ID, `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = s.doJSON(t, http.MethodPut, "/api/events/"+ev.ID+"?name=Autumn%20Gala", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var events []models.Event
	decode(t, s.doJSON(t, http.MethodGet, "/api/events", ""), &events)
	require.Len(t, events, 1)
	assert.Equal(t, "Autumn Gala", events[0].Name)

	saved, ok, err := s.kv.Get(context.Background(), "nametag_events")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, saved, "Autumn Gala")

	rr = s.doJSON(t, http.MethodDelete, "/api/events/"+ev.ID, "")
	assert.Equal(t, http.StatusConflict, rr.Code, "delete without confirmation")
	rr = s.doJSON(t, http.MethodDelete, "/api/events/"+ev.ID+"?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.doJSON(t, http.MethodDelete, "/api/events/"+ev.ID+"?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestActivateUnknownEvent(t *testing.T) {
	s := setupServer(t, "")

	rr := s.doJSON(t, http.MethodPost, "/api/events/nope/activate", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	env := decode(t, rr, nil)
	assert.False(t, env.Success)
}

func TestImportAndEditTags(t *testing.T) {
	s := setupServer(t, "")

	rr := s.upload(t, "/api/tags/import", rosterCSV)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var tags []models.Tag
	env := decode(t, rr, &tags)
	assert.Contains(t, env.Message, "replace")
	require.Len(t, tags, 4)
	assert.Equal(t, "tag-2", tags[2].ID)

	rr = s.upload(t, "/api/tags/import?append=true", rosterCSV)
	decode(t, rr, &tags)
	assert.Len(t, tags, 8)
	assert.Equal(t, "tag-6", tags[6].ID)

	rr = s.doJSON(t, http.MethodPatch, "/api/tags/c1", `{"field":"Child","value":"Byron"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = s.doJSON(t, http.MethodPatch, "/api/tags/c1", `{"field":"id","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = s.doJSON(t, http.MethodPatch, "/api/tags/missing", `{"field":"Yr","value":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.Equal(t, "Byron", s.svc.Snapshot().Tags[0].Child)
}

func TestImportWithoutFile(t *testing.T) {
	s := setupServer(t, "")

	rr := s.doJSON(t, http.MethodPost, "/api/tags/import", `{}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSelectionFilter(t *testing.T) {
	s := setupServer(t, "")
	s.upload(t, "/api/tags/import", rosterCSV)

	rr := s.doJSON(t, http.MethodPut, "/api/tags/filter", `{"enabled":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, models.ErrNothingSelected.Error(), decode(t, rr, nil).Error)

	require.Equal(t, http.StatusOK, s.doJSON(t, http.MethodPost, "/api/tags/c2/toggle", "").Code)
	require.Equal(t, http.StatusOK, s.doJSON(t, http.MethodPut, "/api/tags/filter", `{"enabled":true}`).Code)

	var tags []models.Tag
	decode(t, s.doJSON(t, http.MethodGet, "/api/tags", ""), &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "c2", tags[0].ID)

	var sel map[string]interface{}
	decode(t, s.doJSON(t, http.MethodPost, "/api/tags/deselect-all", ""), &sel)
	assert.Equal(t, float64(0), sel["selectedCount"])
	assert.Equal(t, false, sel["showSelectedOnly"])

	decode(t, s.doJSON(t, http.MethodPost, "/api/tags/select-all", ""), &sel)
	assert.Equal(t, float64(4), sel["selectedCount"])
}

func TestClearTags(t *testing.T) {
	s := setupServer(t, "")
	s.upload(t, "/api/tags/import", rosterCSV)

	assert.Equal(t, http.StatusConflict, s.doJSON(t, http.MethodDelete, "/api/tags", "").Code)
	assert.Len(t, s.svc.Snapshot().Tags, 4)

	assert.Equal(t, http.StatusNoContent, s.doJSON(t, http.MethodDelete, "/api/tags?confirm=true", "").Code)
	assert.Empty(t, s.svc.Snapshot().Tags)
}

func TestSheetsAndExports(t *testing.T) {
	s := setupServer(t, "")

	rr := s.doJSON(t, http.MethodGet, "/api/sheets/pdf", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	s.upload(t, "/api/tags/import", rosterCSV)

	var pages []sheets.Sheet
	decode(t, s.doJSON(t, http.MethodGet, "/api/sheets", ""), &pages)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Tags, 3)
	assert.Len(t, pages[1].Tags, 1)

	rr = s.doJSON(t, http.MethodGet, "/api/sheets/pdf", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "2", rr.Header().Get("X-Page-Count"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))

	rr = s.doJSON(t, http.MethodGet, "/api/tags/export.csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "id,Name1,Name2,Yr,Child,USE_Advanced,Acad_Orgs"))
	assert.Contains(t, rr.Body.String(), "c4,Barbara,Liskov,1961")
}

func TestGetState(t *testing.T) {
	s := setupServer(t, "")
	s.doJSON(t, http.MethodPost, "/api/events", `{"name":"Gala"}`)
	s.upload(t, "/api/tags/import", rosterCSV)
	s.doJSON(t, http.MethodPost, "/api/tags/c1/toggle", "")

	var st struct {
		models.AppState
		SelectedCount int `json:"selectedCount"`
	}
	decode(t, s.doJSON(t, http.MethodGet, "/api/state", ""), &st)

	assert.Equal(t, 1, st.SelectedCount)
	require.Len(t, st.Events, 1)
	assert.Equal(t, st.Events[0].ID, st.ActiveEventID)
	assert.Equal(t, st.Tags, st.Events[0].Tags)
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	s := setupServer(t, "s3cret")

	assert.Equal(t, http.StatusUnauthorized, s.doJSON(t, http.MethodGet, "/api/state", "").Code)
	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.doJSON(t, http.MethodGet, "/metrics", "").Code)

	token, err := auth.IssueToken("s3cret", "desk", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
