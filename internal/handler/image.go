package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/ckapps/quicknote/internal/image"
)

// maxImageSize caps attachment uploads at 10 MiB.
const maxImageSize = 10 << 20

type ImageHandler struct {
	images *image.Store
	logger *slog.Logger
}

func NewImageHandler(images *image.Store, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{images: images, logger: logger}
}

// Upload handles POST /api/images: a multipart form with an "image" field.
// The response carries the stored filename for the note's image_uri.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	name, err := h.images.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, image.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, "unsupported image type")
			return
		}
		h.logger.Error("save image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save image")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"image_uri": name})
}

// Serve handles GET /api/images/{name}.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.images.Path(r.PathValue("name"))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid image name")
		return
	}
	http.ServeFile(w, r, path)
}

// Delete handles DELETE /api/images/{name}.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.images.Delete(r.PathValue("name")); err != nil {
		h.logger.Error("delete image", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
