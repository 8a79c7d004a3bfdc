package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockTikaServer 模拟 /tika 与 /meta 接口，并记录收到的请求头
func createMockTikaServer(t *testing.T) (*httptest.Server, func() []http.Header) {
	t.Helper()
	var (
		mu      sync.Mutex
		headers []http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Clone())
		mu.Unlock()

		if r.Method != http.MethodPut {
			http.Error(w, "Expected PUT request", http.StatusMethodNotAllowed)
			return
		}
		switch r.URL.Path {
		case "/tika":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Jane Doe\nSenior Backend Engineer\n"))
		case "/meta":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{
				"Content-Type": "application/pdf",
				"pdf:PDFVersion": "1.5",
				"meta:author": "Jane Doe",
				"dc:title": "Resume",
				"X-TIKA:Parsed-By": "org.apache.tika.parser.DefaultParser",
				"xmpTPg:NPages": 2
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, func() []http.Header {
		mu.Lock()
		defer mu.Unlock()
		return headers
	}
}

func TestNewTikaExtractor(t *testing.T) {
	extractor := NewTikaExtractor("http://localhost:9998/", types.FormatPDF)
	assert.Equal(t, "http://localhost:9998", extractor.ServerURL, "去掉末尾斜杠")
	assert.Equal(t, 60*time.Second, extractor.Client.Timeout)
	assert.Equal(t, MetadataMinimal, extractor.metadataMode)
	assert.True(t, extractor.extractAnnotations)

	custom := NewTikaExtractor("http://tika:9998", types.FormatDOCX,
		WithMetadataMode("bogus"),
		WithAnnotations(false),
		WithTimeout(5*time.Second),
	)
	assert.Equal(t, MetadataMinimal, custom.metadataMode, "未知模式按 minimal 处理")
	assert.False(t, custom.extractAnnotations)
	assert.Equal(t, 5*time.Second, custom.Client.Timeout)
}

func TestTikaExtractor_MetadataModes(t *testing.T) {
	server, _ := createMockTikaServer(t)
	ctx := context.Background()
	data := []byte("%PDF-1.5\nMock PDF content\n")

	none, err := NewTikaExtractor(server.URL, types.FormatPDF, WithMetadataMode(MetadataNone)).Extract(ctx, data, "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Backend Engineer\n", none.Text)
	assert.Contains(t, none.Meta, "extraction_time")
	assert.NotContains(t, none.Meta, "pdf:PDFVersion")

	minimal, err := NewTikaExtractor(server.URL, types.FormatPDF).Extract(ctx, data, "cv.pdf")
	require.NoError(t, err)
	assert.Contains(t, minimal.Meta, "pdf:PDFVersion")
	assert.Equal(t, float64(2), minimal.Meta["xmpTPg:NPages"])
	assert.NotContains(t, minimal.Meta, "X-TIKA:Parsed-By")

	full, err := NewTikaExtractor(server.URL, types.FormatPDF, WithMetadataMode(MetadataFull)).Extract(ctx, data, "cv.pdf")
	require.NoError(t, err)
	assert.Contains(t, full.Meta, "X-TIKA:Parsed-By")
	assert.Equal(t, "Jane Doe", full.Meta["meta:author"])
}

func TestTikaExtractor_RequestHeaders(t *testing.T) {
	server, headers := createMockTikaServer(t)

	doc, err := NewTikaExtractor(server.URL, types.FormatDOCX,
		WithMetadataMode(MetadataNone),
		WithAnnotations(false),
	).Extract(context.Background(), []byte("PK"), "jane.docx")
	require.NoError(t, err)
	assert.Equal(t, types.FormatDOCX, doc.Format)

	got := headers()
	require.Len(t, got, 1, "none 模式只请求 /tika")
	assert.Equal(t, MimeDOCX, got[0].Get("Content-Type"))
	assert.Equal(t, "text/plain; charset=utf-8", got[0].Get("Accept"))
	assert.Equal(t, "utf-8", got[0].Get("Accept-Charset"))
	assert.Equal(t, "jane.docx", got[0].Get("X-Tika-Resource-Name"))
	assert.Empty(t, got[0].Get("X-Tika-PDFExtractAnnotationText"), "注释开关只对 PDF 生效")
}

func TestTikaExtractor_ServerError(t *testing.T) {
	errorServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer errorServer.Close()

	_, err := NewTikaExtractor(errorServer.URL, types.FormatPDF).Extract(context.Background(), []byte("%PDF"), "cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tika服务器返回错误状态码: 500")
}

func TestTikaExtractor_MetadataFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/meta" {
			w.Write([]byte("not json"))
			return
		}
		w.Write([]byte("text only"))
	}))
	defer server.Close()

	doc, err := NewTikaExtractor(server.URL, types.FormatPDF).Extract(context.Background(), []byte("%PDF"), "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "text only", doc.Text)
	assert.Contains(t, doc.Meta, "text_length")
}

func TestTikaExtractor_ConnectionError(t *testing.T) {
	_, err := NewTikaExtractor("http://127.0.0.1:1", types.FormatPDF, WithTimeout(time.Second)).
		Extract(context.Background(), []byte("%PDF"), "cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "发送请求到Tika服务器失败")
}

func TestTikaExtractor_RetriesTransientStatus(t *testing.T) {
	var textCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tika" && textCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	limiter := ratelimit.NewTokenBucket(6000, 10).WithRetryPolicy(time.Millisecond, 2)
	doc, err := NewTikaExtractor(server.URL, types.FormatPDF, WithMetadataMode(MetadataNone), WithRateLimiter(limiter)).
		Extract(context.Background(), []byte("%PDF"), "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "recovered", doc.Text)
	assert.Equal(t, int32(2), textCalls.Load(), "503 之后重试一次")
}

func TestTikaExtractor_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	limiter := ratelimit.NewTokenBucket(6000, 10).WithRetryPolicy(time.Millisecond, 2)
	_, err := NewTikaExtractor(server.URL, types.FormatPDF, WithMetadataMode(MetadataNone), WithRateLimiter(limiter)).
		Extract(context.Background(), []byte("%PDF"), "cv.pdf")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
