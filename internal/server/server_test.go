package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/workready/internal/ingestion"
	"github.com/jonathan/workready/internal/llm"
	"github.com/jonathan/workready/internal/pipeline"
	"github.com/jonathan/workready/internal/prompts"
	"github.com/jonathan/workready/internal/rendering"
	"github.com/jonathan/workready/internal/server/ratelimit"
	"github.com/jonathan/workready/internal/types"
	"github.com/jonathan/workready/internal/validation"
)

// mockModel replies with a fixed text and counts calls
type mockModel struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (m *mockModel) GenerateContent(_ context.Context, _, _ string, _ llm.ModelTier) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.reply, m.err
}

func (m *mockModel) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *mockModel) Close() error { return nil }

func (m *mockModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// newTestServer creates a server with rate limiting disabled unless rl is given
func newTestServer(t *testing.T, model *mockModel, rl *ratelimit.Config) *Server {
	t.Helper()

	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	p := &pipeline.Pipeline{
		Extractor: &ingestion.PDFExtractor{TempDir: t.TempDir()},
		Model:     model,
		Renderer:  rendering.NewRenderer(rendering.DefaultOptions()),
		Tier:      llm.TierStandard,
	}
	s := New(Config{Port: 0, MaxUploadBytes: 1 << 20, RateLimit: rl}, p)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func resumePDF(t *testing.T) []byte {
	t.Helper()

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Text(72, 72, "Ana Silva - Data Engineer")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

// multipartBody builds a form with one file part and text fields
func multipartBody(t *testing.T, fileField, fileName string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["error"]
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	w := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	_, err := time.Parse(time.RFC3339, resp["time"])
	assert.NoError(t, err)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPersonalize_Success(t *testing.T) {
	model := &mockModel{reply: prompts.ReplyExample()}
	s := newTestServer(t, model, nil)

	body, contentType := multipartBody(t, "arquivo", "cv.pdf", resumePDF(t), map[string]string{
		"vaga": "Engenheira de dados com Python",
	})
	req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
	req.Header.Set("Content-Type", contentType)

	w := doRequest(s, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Equal(t, "1", w.Header().Get("X-Page-Count"))

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Ana_Silva.pdf", params["filename"])
	assert.Equal(t, 1, model.callCount())
	assert.Empty(t, w.Header().Get("X-Document-Issues"))
}

func TestPersonalize_ReportsDocumentIssues(t *testing.T) {
	model := &mockModel{reply: strings.Replace(prompts.ReplyExample(), "- SQL", "- [Nome da ferramenta]", 1)}
	s := newTestServer(t, model, nil)
	s.pipeline.Checker = validation.NewChecker(validation.Options{SkipReadability: true})

	body, contentType := multipartBody(t, "arquivo", "cv.pdf", resumePDF(t), map[string]string{
		"vaga": "Engenheira de dados com Python",
	})
	req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
	req.Header.Set("Content-Type", contentType)

	w := doRequest(s, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Document-Issues"))
}

func TestPersonalize_OutputName(t *testing.T) {
	s := newTestServer(t, &mockModel{reply: prompts.ReplyExample()}, nil)

	body, contentType := multipartBody(t, "arquivo", "cv.pdf", resumePDF(t), map[string]string{
		"vaga":               "Engenheira de dados",
		"nome_arquivo_saida": "curriculo final",
	})
	req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
	req.Header.Set("Content-Type", contentType)

	w := doRequest(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "curriculo_final.pdf", params["filename"])
}

func TestCreateCVV_UsesWebClientFields(t *testing.T) {
	model := &mockModel{reply: prompts.ReplyExample()}
	s := newTestServer(t, model, nil)

	body, contentType := multipartBody(t, "pdf_file", "curriculo.pdf", resumePDF(t), map[string]string{
		"description": "Vaga de engenharia de dados",
	})
	req := httptest.NewRequest(http.MethodPost, "/cvv/create-cvv", body)
	req.Header.Set("Content-Type", contentType)

	w := doRequest(s, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 1, model.callCount())
}

func TestPersonalize_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		build    func(t *testing.T) (*bytes.Buffer, string)
		contains string
	}{
		{
			name: "missing file",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "", "", nil, map[string]string{"vaga": "Engenheira"})
			},
			contains: "PDF file is required",
		},
		{
			name: "empty file",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "arquivo", "cv.pdf", nil, map[string]string{"vaga": "Engenheira"})
			},
			contains: "empty",
		},
		{
			name: "wrong extension",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "arquivo", "cv.txt", []byte("just text"), map[string]string{"vaga": "Engenheira"})
			},
			contains: "PDF",
		},
		{
			name: "missing job description",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				return multipartBody(t, "arquivo", "cv.pdf", resumePDF(t), nil)
			},
			contains: "job description",
		},
		{
			name: "oversized file",
			build: func(t *testing.T) (*bytes.Buffer, string) {
				data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), 3<<20)...)
				return multipartBody(t, "arquivo", "cv.pdf", data, map[string]string{"vaga": "Engenheira"})
			},
			contains: "exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &mockModel{reply: prompts.ReplyExample()}
			s := newTestServer(t, model, nil)

			body, contentType := tt.build(t)
			req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
			req.Header.Set("Content-Type", contentType)

			w := doRequest(s, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w), tt.contains)
			assert.Zero(t, model.callCount())
		})
	}
}

func TestPersonalize_NotMultipart(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", strings.NewReader(`{"vaga":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	w := doRequest(s, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPersonalize_ProcessingFailures(t *testing.T) {
	t.Run("unreadable pdf", func(t *testing.T) {
		model := &mockModel{reply: prompts.ReplyExample()}
		s := newTestServer(t, model, nil)

		body, contentType := multipartBody(t, "arquivo", "cv.pdf", []byte("%PDF-1.4\nbroken"), map[string]string{"vaga": "x"})
		req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
		req.Header.Set("Content-Type", contentType)

		w := doRequest(s, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Zero(t, model.callCount())
	})

	t.Run("empty model reply", func(t *testing.T) {
		model := &mockModel{reply: ""}
		s := newTestServer(t, model, nil)

		body, contentType := multipartBody(t, "arquivo", "cv.pdf", resumePDF(t), map[string]string{"vaga": "x"})
		req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
		req.Header.Set("Content-Type", contentType)

		w := doRequest(s, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w), "empty reply")
	})
}

func TestStructure_ReturnsDocument(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	reply := "NOME: Ana Silva\n\nCARGO: Engenheira\n\nRESUMO: Especialista em dados.\n\nEXPERIENCIA:\n- Engenheira | Acme | 2020-2023\n  - Reduziu custos em 20%\n\nCOMPETENCIAS:\n- Python\n- SQL\n"
	req := httptest.NewRequest(http.MethodPost, "/curriculo/estruturar", strings.NewReader(reply))
	req.Header.Set("Content-Type", "text/plain")

	w := doRequest(s, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var doc types.ParsedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Ana Silva", doc.Name)
	assert.Equal(t, "Engenheira", doc.Title)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Engenheira | Acme | 2020-2023", doc.Experience[0].Heading)
	assert.Equal(t, []string{"Reduziu custos em 20%"}, doc.Experience[0].Details)
	assert.Equal(t, []string{"Python", "SQL"}, doc.Skills)
}

func TestStructure_RendersPDF(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/curriculo/estruturar?formato=pdf", strings.NewReader(prompts.ReplyExample()))
	w := doRequest(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestStructure_EmptyBody(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	w := doRequest(s, httptest.NewRequest(http.MethodPost, "/curriculo/estruturar", strings.NewReader("  \n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	w := doRequest(s, httptest.NewRequest(http.MethodOptions, "/curriculo/personalizar", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestRateLimit_GenerationEndpoint(t *testing.T) {
	model := &mockModel{reply: prompts.ReplyExample()}
	s := newTestServer(t, model, &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: ratelimit.EndpointConfigs(1, 1),
	})

	send := func() *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, "arquivo", "cv.pdf", resumePDF(t), map[string]string{"vaga": "x"})
		req := httptest.NewRequest(http.MethodPost, "/curriculo/personalizar", body)
		req.Header.Set("Content-Type", contentType)
		return doRequest(s, req)
	}

	first := send()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := send()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, 1, model.callCount())

	// health stays available
	health := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, &mockModel{}, nil)

	w := doRequest(s, httptest.NewRequest(http.MethodGet, "/curriculo/personalizar", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
