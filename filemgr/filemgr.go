package filemgr

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"pictora/models"
)

// UploadDir is where media blobs live on disk; they are served back under
// the same path by the static route.
const UploadDir = "./static/uploads"

const thumbWidth = 320

func EnsureDirs() error {
	return os.MkdirAll(UploadDir, 0o755)
}

// DetectKind maps a MIME type onto the supported media kinds.
func DetectKind(mimeType string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaVideo, true
	}
	return "", false
}

// SaveMedia persists an uploaded blob under a fresh uuid-derived name and
// returns the stored filename and inferred media kind. Unsupported MIME
// types are rejected before anything is written.
func SaveMedia(file multipart.File, header *multipart.FileHeader, dir string) (string, models.MediaKind, error) {
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		sniff := make([]byte, 512)
		n, _ := file.Read(sniff)
		mimeType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return "", "", err
		}
	}

	kind, ok := DetectKind(mimeType)
	if !ok {
		return "", "", fmt.Errorf("unsupported media type %q", mimeType)
	}

	filename := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(dir, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", "", err
	}

	if kind == models.MediaImage {
		makeThumbnail(path)
	}

	return filename, kind, nil
}

// makeThumbnail writes a small jpeg next to the original. Best effort.
func makeThumbnail(path string) {
	img, err := imaging.Open(path)
	if err != nil {
		log.Printf("thumbnail skipped for %s: %v", path, err)
		return
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath(path)); err != nil {
		log.Printf("thumbnail save failed for %s: %v", path, err)
	}
}

func thumbPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.jpg"
}

// Remove deletes the blob (and its thumbnail, if any) behind a media
// locator like "/static/uploads/<name>". Best effort: failures are logged,
// never propagated.
func Remove(locator string) {
	if locator == "" {
		return
	}
	path := "." + locator
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove media %s: %v", path, err)
	}
	if err := os.Remove(thumbPath(path)); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove thumbnail for %s: %v", path, err)
	}
}
