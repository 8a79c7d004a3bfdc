package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx 在内存中生成只包含指定部件的 DOCX 包
func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Senior Backend Engineer</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>jane@example.com</w:t></w:r><w:r><w:tab/><w:t>+1 555 123 4567</w:t></w:r></w:p>` +
	`<w:p></w:p>` +
	`<w:p><w:r><w:t>R&amp;D at </w:t></w:r><w:r><w:t xml:space="preserve">Acme   Corp</w:t></w:r><w:r><w:br/><w:t>Line two</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func TestDOCXExtractor_Extract(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   sampleDocumentXML,
	})

	doc, err := NewDOCXExtractor().Extract(context.Background(), data, "jane.docx")
	require.NoError(t, err)
	assert.Equal(t, types.FormatDOCX, doc.Format)
	assert.Empty(t, doc.Pages, "DOCX 没有定位片段")
	assert.Equal(t,
		"Jane Doe\nSenior Backend Engineer\njane@example.com +1 555 123 4567\nR&D at Acme Corp\nLine two",
		doc.Text)
	assert.Equal(t, "jane.docx", doc.Meta["source_file_path"])
}

func TestDOCXExtractor_Errors(t *testing.T) {
	ctx := context.Background()
	extractor := NewDOCXExtractor()

	_, err := extractor.Extract(ctx, []byte("definitely not a zip"), "bad.docx")
	assert.Error(t, err)

	data := buildDocx(t, map[string]string{"word/styles.xml": "<w:styles/>"})
	_, err = extractor.Extract(ctx, data, "empty.docx")
	assert.ErrorIs(t, err, ErrNoDocumentXML)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = extractor.Extract(cancelled, data, "x.docx")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDOCXExtractor_DocumentXMLTooLarge(t *testing.T) {
	ctx := context.Background()
	body := `<w:document><w:body><w:p><w:r><w:t>` + strings.Repeat("A", 4096) + `</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, map[string]string{"word/document.xml": body})

	_, err := NewDOCXExtractor(WithMaxXMLBytes(1024)).Extract(ctx, data, "bomb.docx")
	assert.ErrorIs(t, err, ErrDocumentXMLTooLarge)

	doc, err := NewDOCXExtractor(WithMaxXMLBytes(int64(len(body)))).Extract(ctx, data, "ok.docx")
	require.NoError(t, err, "恰好等于上限时允许")
	assert.Len(t, doc.Text, 4096)
}

func TestDOCXExtractor_DefaultLimit(t *testing.T) {
	huge := strings.Repeat("A", constants.MaxDocxXMLBytes+1)
	data := buildDocx(t, map[string]string{"word/document.xml": huge})
	require.Less(t, len(data), constants.DefaultMaxFileBytes, "压缩后远小于上传上限")

	_, err := NewDOCXExtractor().Extract(context.Background(), data, "bomb.docx")
	assert.ErrorIs(t, err, ErrDocumentXMLTooLarge)
}

func TestReadAllLimited(t *testing.T) {
	data, err := readAllLimited(strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// 不依赖压缩包头中声明的大小
	_, err = readAllLimited(strings.NewReader("hello!"), 5)
	assert.ErrorIs(t, err, ErrDocumentXMLTooLarge)
}
