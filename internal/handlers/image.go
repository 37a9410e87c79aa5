package handlers

import (
	"fmt"
	"net/http"

	"mcpdex/internal/services"

	"github.com/gin-gonic/gin"
)

// ImageHandler 图片上传 Handler
type ImageHandler struct {
	storage *services.Storage
}

// NewImageHandler 创建 ImageHandler 实例
func NewImageHandler(storage *services.Storage) *ImageHandler {
	return &ImageHandler{storage: storage}
}

// Upload 处理图片上传请求 (POST /api/upload)
// 需要用户已登录；bucket 只接受 logos / thumbnails
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "image file is required",
		})
		return
	}
	defer file.Close()

	bucket := c.PostForm("bucket")
	if bucket == "" {
		bucket = services.BucketLogos
	}
	baseName := c.PostForm("name")

	result, err := h.storage.SaveImage(file, header, bucket, baseName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("upload failed: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     result.URL,
		"name":    result.FileName,
	})
}
