package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/kitchenmania/pantry/internal/reconcile"
)

var receiptTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// readImage accepts either a raw image body or a multipart form with an
// "image" file field
func (s *Server) readImage(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var src io.Reader = r.Body
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			return nil, "", err
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", errors.New("form field 'image' is required")
		}
		defer file.Close()
		src = file
		mediaType, _, _ = mime.ParseMediaType(header.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image")
	}

	if !receiptTypes[mediaType] {
		mediaType = strings.SplitN(http.DetectContentType(data), ";", 2)[0]
	}
	if !receiptTypes[mediaType] {
		return nil, "", errors.New("unsupported image type " + mediaType)
	}
	return data, mediaType, nil
}

// scanReceipt parses a receipt photo and previews the reconciliation; the
// client confirms by posting the reviewed items to /api/items/bulk
func (s *Server) scanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	image, mimeType, err := s.readImage(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	names, err := s.store.ItemNames()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, err := s.parser.ParseReceipt(r.Context(), image, mimeType, names)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	pantry, err := s.store.Snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview(items, reconcile.Reconcile(items, pantry)))
}
