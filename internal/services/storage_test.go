package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
)

// buildUpload 构造一个携带图片字段的 multipart 请求
func buildUpload(t *testing.T, fileName, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="image"; filename="` + fileName + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	file, header, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("FormFile failed: %v", err)
	}
	return file, header
}

func TestSaveImage(t *testing.T) {
	storage := &Storage{root: t.TempDir()}

	file, header := buildUpload(t, "logo.png", "image/png", []byte("fake png bytes"))
	defer file.Close()

	result, err := storage.SaveImage(file, header, BucketLogos, "")
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	// 文件名规则：基础名-时间戳.扩展名
	if !strings.HasPrefix(result.FileName, "logo-") || !strings.HasSuffix(result.FileName, ".png") {
		t.Errorf("Unexpected file name %s", result.FileName)
	}
	if !strings.HasPrefix(result.URL, "/uploads/logos/") {
		t.Errorf("Unexpected URL %s", result.URL)
	}

	files, err := storage.ListFiles(BucketLogos)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 1 || files[0] != result.FileName {
		t.Errorf("Expected saved file on disk, got %v", files)
	}
}

func TestSaveImageRejections(t *testing.T) {
	storage := &Storage{root: t.TempDir()}

	// 非图片 MIME
	file, header := buildUpload(t, "doc.pdf", "application/pdf", []byte("%PDF"))
	if _, err := storage.SaveImage(file, header, BucketLogos, ""); err == nil {
		t.Error("Expected rejection for non-image MIME")
	}
	file.Close()

	// 超过 5MB
	file, header = buildUpload(t, "big.png", "image/png", []byte("x"))
	header.Size = MaxUploadSize + 1
	if _, err := storage.SaveImage(file, header, BucketLogos, ""); err == nil {
		t.Error("Expected rejection for oversized file")
	}
	file.Close()

	// 未知桶
	file, header = buildUpload(t, "a.png", "image/png", []byte("x"))
	if _, err := storage.SaveImage(file, header, "secrets", ""); err == nil {
		t.Error("Expected rejection for unknown bucket")
	}
	file.Close()
}

// 自定义基础名里的路径被剥掉，只留文件名
func TestSaveImagePathTraversal(t *testing.T) {
	storage := &Storage{root: t.TempDir()}

	file, header := buildUpload(t, "a.png", "image/png", []byte("x"))
	defer file.Close()

	result, err := storage.SaveImage(file, header, BucketThumbnails, "../../etc/passwd")
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if strings.Contains(result.FileName, "/") || strings.Contains(result.FileName, "..") {
		t.Errorf("Path traversal not stripped: %s", result.FileName)
	}
}

func TestDeleteImage(t *testing.T) {
	storage := &Storage{root: t.TempDir()}

	file, header := buildUpload(t, "gone.png", "image/png", []byte("x"))
	defer file.Close()

	result, err := storage.SaveImage(file, header, BucketLogos, "")
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if err := storage.DeleteImage(BucketLogos, result.FileName); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}

	files, _ := storage.ListFiles(BucketLogos)
	if len(files) != 0 {
		t.Errorf("Expected empty bucket after delete, got %v", files)
	}
}
