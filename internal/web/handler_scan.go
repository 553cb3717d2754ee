package web

import (
	"io"
	"log/slog"
	"net/http"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for zone photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the stdlib sniffer has no
// WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) handleScanZone(w http.ResponseWriter, r *http.Request) {
	zoneID, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+maxBodySize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeBadRequest(w, msgImageRequired)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeBadRequest(w, msgImageRequired)
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "zone_id", zoneID, "error", err)
		writeBadRequest(w, msgImageRequired)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		writeBadRequest(w, msgBadImage)
		return
	}

	res, err := s.scan.ScanZone(r.Context(), userFrom(r.Context()).ID, zoneID, imageData, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScanJSON(res))
}

func (s *Server) handleZonePhoto(w http.ResponseWriter, r *http.Request) {
	zoneID, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}

	reader, mimeType, err := s.scan.ZonePhoto(r.Context(), userFrom(r.Context()).ID, zoneID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "zone_id", zoneID, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
