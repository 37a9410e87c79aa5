package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// 两个存储桶：条目 Logo 与缩略图
const (
	BucketLogos      = "logos"
	BucketThumbnails = "thumbnails"
)

// MaxUploadSize 图片上传大小上限 5MB
const MaxUploadSize = 5 * 1024 * 1024

// UploadResult 上传结果
type UploadResult struct {
	URL      string `json:"url"`       // 公开访问路径
	FileName string `json:"file_name"` // 桶内文件名
	Bucket   string `json:"bucket"`
}

// Storage 磁盘存储服务，按桶划分目录
type Storage struct {
	root string
}

// NewStorage 创建存储服务，根目录取 UPLOAD_DIR，默认 ./uploads
func NewStorage() *Storage {
	root := os.Getenv("UPLOAD_DIR")
	if root == "" {
		root = "./uploads"
	}
	return &Storage{root: root}
}

func validBucket(bucket string) bool {
	return bucket == BucketLogos || bucket == BucketThumbnails
}

// SaveImage 校验并落盘上传的图片
// 规则与托管端一致：仅接受 image/* MIME，不超过 5MB，
// 文件名追加时间戳避免冲突。
func (s *Storage) SaveImage(file multipart.File, header *multipart.FileHeader, bucket, baseName string) (*UploadResult, error) {
	if !validBucket(bucket) {
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("file must be an image")
	}

	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("file size must be less than 5MB")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".png"
	}

	if baseName == "" {
		baseName = strings.TrimSuffix(filepath.Base(header.Filename), ext)
	}
	// 防止路径穿越，只保留文件名部分
	baseName = filepath.Base(baseName)

	uniqueName := fmt.Sprintf("%s-%d%s", baseName, time.Now().UnixMilli(), ext)

	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, uniqueName))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxUploadSize)); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("/uploads/%s/%s", bucket, uniqueName),
		FileName: uniqueName,
		Bucket:   bucket,
	}, nil
}

// DeleteImage 删除桶内文件
func (s *Storage) DeleteImage(bucket, fileName string) error {
	if !validBucket(bucket) {
		return fmt.Errorf("unknown bucket %q", bucket)
	}
	return os.Remove(filepath.Join(s.root, bucket, filepath.Base(fileName)))
}

// ListFiles 列出桶内文件名
func (s *Storage) ListFiles(bucket string) ([]string, error) {
	if !validBucket(bucket) {
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}

	entries, err := os.ReadDir(filepath.Join(s.root, bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Root 存储根目录（静态路由挂载用）
func (s *Storage) Root() string {
	return s.root
}
