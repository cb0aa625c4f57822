package routes

import (
	"net/http"
	"strings"

	"github.com/unet360/unet360/backend/internal/server/middleware"
	"github.com/unet360/unet360/backend/internal/storage"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// UploadImageHandler stores a panorama image and returns a short-lived
// download link for it. The key goes into a node's url_image.
func UploadImageHandler(c echo.Context) error {
	type uploadImageResponse struct {
		Message   string `json:"message"`
		FilePath  string `json:"file_path,omitempty"`
		SignedURL string `json:"signed_url,omitempty"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, uploadImageResponse{Message: "Unauthorized"})
	}

	app := c.(*middleware.AppContext).App
	if app.Images == nil {
		return c.JSON(http.StatusServiceUnavailable, uploadImageResponse{Message: "Image storage is not configured"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadImageResponse{Message: "Invalid request body"})
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, uploadImageResponse{Message: "File must be an image"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadImageResponse{Message: "Invalid request body"})
	}
	defer src.Close()

	fId, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadImageResponse{Message: "Internal server error"})
	}

	ctx := c.Request().Context()
	key, err := app.Images.PutImage(ctx, storage.ImageKey(user.UserID, fId, file.Filename), contentType, src)
	if err != nil {
		logger.Error("[Upload] Failed to upload image", "user", user.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadImageResponse{Message: "Internal server error"})
	}

	link, err := app.Images.DownloadLink(ctx, key)
	if err != nil {
		logger.Error("[Upload] Failed to sign download link", "key", key, "err", err)
		if err := app.Images.DeleteImage(ctx, key); err != nil {
			logger.Warn("[Upload] Failed to remove image", "key", key, "err", err)
		}
		return c.JSON(http.StatusInternalServerError, uploadImageResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusCreated, uploadImageResponse{
		Message:   "Image uploaded",
		FilePath:  key,
		SignedURL: link,
	})
}
