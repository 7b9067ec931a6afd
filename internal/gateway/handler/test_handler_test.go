package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eightd/internal/artifact"
	"eightd/internal/gateway/service/workbench"
	"eightd/internal/llm"
	"eightd/internal/llmclient"
	"eightd/internal/session"
)

var clock = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t         *testing.T
	mux       *http.ServeMux
	fake      *llm.FakeClient
	artifacts *artifact.MemoryStore
}

func newFixture(t *testing.T, provider string) *fixture {
	t.Helper()
	setup, err := llm.NewSetup(llm.Options{Provider: provider})
	require.NoError(t, err)
	t.Cleanup(setup.Close)
	arts := artifact.NewMemoryStore(16, time.Hour)
	svc, err := workbench.New(workbench.Deps{
		Sessions:  session.NewMemoryStore(16, time.Hour),
		Artifacts: arts,
		LLM:       setup,
		Now:       func() time.Time { return clock },
	})
	require.NoError(t, err)
	mux := http.NewServeMux()
	New(svc, nil).Register(mux)
	return &fixture{t: t, mux: mux, fake: setup.Fake(), artifacts: arts}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) create() string {
	rec := f.do(http.MethodPost, "/v1/sessions", nil)
	require.Equal(f.t, http.StatusCreated, rec.Code)
	return decode[session.Session](f.t, rec).ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestReportEditing(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	base := "/v1/sessions/" + id + "/report"

	rec := f.do(http.MethodPut, base+"/d0", map[string]string{"title": "Weld Crack", "customer": "ACME"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Weld Crack", decode[session.Session](t, rec).Report.D0.Title)

	rec = f.do(http.MethodPut, base+"/d4/whys/2", map[string]string{"text": "fixture worn"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fixture worn", decode[session.Session](t, rec).Report.D4.Whys[1])

	rec = f.do(http.MethodPut, base+"/d4/whys/6", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(http.MethodPut, base+"/d9", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/d3", map[string]string{"content": "sort stock"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, base+"/d3", map[string]string{"content": "  "}).Code)
	rec = f.do(http.MethodDelete, base+"/d3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[session.Session](t, rec).Report.D3)

	rec = f.do(http.MethodPost, base+"/d5", map[string]string{"action": "replace fixture"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-24", decode[session.Session](t, rec).Report.D5[0].Date)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/d5", map[string]string{"action": "audit line", "date": "2024-06-01"}).Code)

	rec = f.do(http.MethodGet, base+"/actions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status_class":"Overdue"`)

	require.Equal(t, http.StatusOK, f.do(http.MethodPatch, base+"/d5/2", map[string]string{"status": "Completed"}).Code)
	rec = f.do(http.MethodGet, base+"/actions", nil)
	assert.NotContains(t, rec.Body.String(), `"status_class":"Overdue"`)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, base+"/d5/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, base+"/d5/5", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodDelete, base+"/d5/zero", nil).Code)

	rec = f.do(http.MethodGet, "/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[session.Session](t, rec)
	require.Len(t, got.Report.D5, 1)
	assert.Equal(t, "audit line", got.Report.D5[0].Action)
	assert.Zero(t, f.fake.CallCount(""))
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	rec := f.do(http.MethodGet, "/v1/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/v1/sessions/nope/audit", map[string]string{"text": "x"}).Code)
}

func TestFiveWhysSuggestAndAdopt(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	base := "/v1/sessions/" + id + "/report"

	rec := f.do(http.MethodPost, base+"/d4/suggest", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.fake.CallCount(llm.PhaseFiveWhys))

	f.do(http.MethodPut, base+"/d2", map[string]string{"what": "Weld crack on bracket"})
	rec = f.do(http.MethodPost, base+"/d4/suggest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, decode[session.Session](t, rec).Report.D4.Pending)

	rec = f.do(http.MethodPost, base+"/d4/adopt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[session.Session](t, rec).Report.D4
	assert.Equal(t, "fake why 1", got.Whys[0])
	assert.Equal(t, "fake root cause", got.RootCause)
	assert.Nil(t, got.Pending)

	assert.Equal(t, http.StatusConflict, f.do(http.MethodPost, base+"/d4/adopt", nil).Code)
}

func TestFailedSuggestionStillDropsPending(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	base := "/v1/sessions/" + id + "/report"
	f.do(http.MethodPut, base+"/d2", map[string]string{"what": "Weld crack"})
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/d4/suggest", nil).Code)

	f.fake.Reply(llm.PhaseFiveWhys, "not json")
	rec := f.do(http.MethodPost, base+"/d4/suggest", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = f.do(http.MethodGet, "/v1/sessions/"+id, nil)
	assert.Nil(t, decode[session.Session](t, rec).Report.D4.Pending)
}

func TestAuditTranslateExport(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	base := "/v1/sessions/" + id + "/audit"

	rec := f.do(http.MethodPost, base+"/export?lang=en", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	rec = f.do(http.MethodGet, base+"/export", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = f.do(http.MethodPost, base+"/translate", map[string]string{"lang": "en"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPost, base, map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.fake.CallCount(""))

	rec = f.do(http.MethodPost, base, map[string]string{"text": "8D report: weld crack"})
	require.Equal(t, http.StatusOK, rec.Code)
	sess := decode[session.Session](t, rec)
	require.True(t, sess.Audit.Ready())
	assert.Equal(t, "N/A", sess.Audit.Extracted.D1TeamLeader)

	rec = f.do(http.MethodPost, base+"/translate", map[string]string{"lang": "klingon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.fake.CallCount(llm.PhaseTranslate))

	rec = f.do(http.MethodPost, base+"/translate", map[string]string{"lang": "en"})
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[session.Session](t, rec).Audit.Translation
	require.NotNil(t, tr)
	assert.Equal(t, "en", tr.Language)
	assert.False(t, tr.StructureLost)

	rec = f.do(http.MethodGet, base+"/export?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.fake.CallCount(llm.PhaseTranslate))
	assert.Equal(t, "attachment; filename*=UTF-8''AI_Audit_English_Report_20240610.docx", rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = f.do(http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), url.PathEscape("AI_Audit_Report_20240610.docx"))

	names, err := f.artifacts.List(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"AI_Audit_English_Report_20240610.docx", "AI_Audit_Report_20240610.docx"}, names)
}

func TestAuditFailureKeepsPreviousAudit(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	base := "/v1/sessions/" + id + "/audit"
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base, map[string]string{"text": "first"}).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/translate", map[string]string{"lang": "ja"}).Code)

	f.fake.Fail(llm.PhaseEvaluate, &llmclient.AuthError{Provider: "fake", Status: 401, Err: errors.New("bad key")})
	rec := f.do(http.MethodPost, base, map[string]string{"text": "second"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, errorOf(t, rec), "authentication rejected")

	sess := decode[session.Session](t, f.do(http.MethodGet, "/v1/sessions/"+id, nil))
	require.True(t, sess.Audit.Ready())
	require.NotNil(t, sess.Audit.Translation)
	assert.Equal(t, "ja", sess.Audit.Translation.Language)
}

func TestMissingCredentialIsPreconditionFailed(t *testing.T) {
	f := newFixture(t, llm.ProviderDeepSeek)
	id := f.create()
	rec := f.do(http.MethodPost, "/v1/sessions/"+id+"/audit", map[string]string{"text": "report"})
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, errorOf(t, rec), llmclient.ErrMissingCredential.Error())
}

func upload(t *testing.T, f *fixture, path, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestAuditUpload(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	path := "/v1/sessions/" + id + "/audit"

	rec := upload(t, f, path, "report.txt", []byte("\xEF\xBB\xBFD1: team"))
	require.Equal(t, http.StatusOK, rec.Code)
	calls := f.fake.Calls()
	require.NotEmpty(t, calls)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(calls[0].Request.Prompt), "D1: team"))

	assert.Equal(t, http.StatusUnprocessableEntity, upload(t, f, path, "bad.txt", []byte{'o', 'k', 0xc3, 0x28}).Code)
	assert.Equal(t, http.StatusBadRequest, upload(t, f, path, "report.exe", []byte("MZ")).Code)
}

func TestReportExport(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	id := f.create()
	f.do(http.MethodPut, "/v1/sessions/"+id+"/report/d0", map[string]string{"title": "Weld Crack"})

	rec := f.do(http.MethodGet, "/v1/sessions/"+id+"/report/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename*=UTF-8''"+url.PathEscape("8D_Report_Weld Crack_中文.html"), rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "<tr><td>Why 1</td><td>N/A</td></tr>")
	assert.Zero(t, f.fake.CallCount(llm.PhaseTranslate))

	rec = f.do(http.MethodGet, "/v1/sessions/"+id+"/report/export?lang=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.fake.CallCount(llm.PhaseTranslate))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "English.html")

	assert.Equal(t, http.StatusNotImplemented, f.do(http.MethodGet, "/v1/sessions/"+id+"/report/export?format=pdf", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/v1/sessions/"+id+"/report/export?format=odt", nil).Code)
}

func TestLanguagesAndHealth(t *testing.T) {
	f := newFixture(t, llm.ProviderFake)
	rec := f.do(http.MethodGet, "/v1/languages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "zh", decode[map[string]any](t, rec)["native"])
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", nil).Code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusOf(errors.New("boom")))
	assert.Equal(t, http.StatusBadGateway, statusOf(&llmclient.TransportError{Provider: "x", Err: errors.New("down")}))
}
