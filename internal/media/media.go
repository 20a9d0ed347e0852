// Package media turns uploaded covers and avatars into cropped JPEG/WebP files
// under the upload directory.
package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"nashr/internal/models"
	"nashr/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "/tmp/nashr/uploads"
	DefaultMaxUploadSizeMB = 10
	JPEGQuality            = 82
	WebPQuality            = 70
)

// URLPrefix is where the upload directory is served.
const URLPrefix = "/media"

type kindSpec struct {
	ratio   float64
	maxSide int
	ladder  []int
}

var kinds = map[models.ImageKind]kindSpec{
	models.ImageKindCover:  {ratio: 1.91, maxSide: 1440, ladder: []int{320, 640, 1080}},
	models.ImageKindAvatar: {ratio: 1.0, maxSide: 512, ladder: []int{64, 128, 256}},
}

// UploadInput is one multipart upload.
type UploadInput struct {
	UserID      string
	Kind        models.ImageKind
	Filename    string
	ContentType string
	Content     []byte
}

// Upload is the stored image and the URLs it can be fetched from.
type Upload struct {
	Image    *models.Image     `json:"image"`
	URL      string            `json:"url"`
	WebP     string            `json:"webp"`
	Variants map[string]string `json:"variants"`
}

// Service stores processed images on disk and their metadata in the database.
type Service struct {
	repo      repository.ImageRepository
	uploadDir string
	maxBytes  int64
}

func NewService(repo repository.ImageRepository, uploadDir string, maxUploadSizeMB int) *Service {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	return &Service{
		repo:      repo,
		uploadDir: uploadDir,
		maxBytes:  int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Dir is the directory served under URLPrefix.
func (s *Service) Dir() string {
	return s.uploadDir
}

// MaxBytes is the largest accepted upload.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

func (s *Service) Upload(ctx context.Context, in UploadInput) (*Upload, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("")
	}
	if in.Kind == "" {
		in.Kind = models.ImageKindCover
	}
	spec, ok := kinds[in.Kind]
	if !ok {
		return nil, models.NewValidationError("نوع تصویر باید cover یا avatar باشد")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("فایلی ارسال نشده است")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return nil, models.NewValidationError(fmt.Sprintf("حجم فایل بیش از حد مجاز است (حداکثر %d مگابایت)", s.maxBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return nil, models.NewValidationError("نوع تصویر نامعتبر است")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("فایل تصویر نامعتبر است")
	}

	master := resizeToFit(centerCrop(decoded, spec.ratio), spec.maxSide, spec.maxSide)
	masterJPG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError("", err)
	}

	hash := contentHash(in.UserID, in.Kind, masterJPG)
	if existing, err := s.repo.GetByHash(ctx, hash); err == nil {
		return s.describe(existing, spec), nil
	} else if !repository.IsNotFound(err) {
		return nil, models.NewInternalError("", err)
	}

	written, err := s.writeFiles(hash, master, masterJPG, spec)
	if err != nil {
		cleanup(written)
		return nil, models.NewInternalError("", err)
	}

	b := master.Bounds()
	record := &models.Image{
		Hash:             hash,
		UserID:           in.UserID,
		Kind:             in.Kind,
		OriginalFilename: in.Filename,
		Width:            b.Dx(),
		Height:           b.Dy(),
		SizeBytes:        int64(len(masterJPG)),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		cleanup(written)
		return nil, models.NewInternalError("", err)
	}
	return s.describe(record, spec), nil
}

func (s *Service) writeFiles(hash string, master image.Image, masterJPG []byte, spec kindSpec) ([]string, error) {
	dir := filepath.Join(s.uploadDir, hash)
	var written []string
	write := func(name string, data []byte) error {
		p := filepath.Join(dir, name)
		if err := writeBytesToFile(p, data); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	}

	if err := write("master.jpg", masterJPG); err != nil {
		return written, err
	}
	masterWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return written, err
	}
	if err := write("master.webp", masterWebP); err != nil {
		return written, err
	}

	for _, size := range variantSizes(spec, master.Bounds().Dx()) {
		encoded, err := encodeWebP(resizeToFit(master, size, size), WebPQuality)
		if err != nil {
			return written, err
		}
		if err := write(strconv.Itoa(size)+".webp", encoded); err != nil {
			return written, err
		}
	}
	return written, nil
}

func (s *Service) describe(img *models.Image, spec kindSpec) *Upload {
	base := URLPrefix + "/" + img.Hash
	out := &Upload{
		Image:    img,
		URL:      base + "/master.jpg",
		WebP:     base + "/master.webp",
		Variants: make(map[string]string),
	}
	for _, size := range variantSizes(spec, img.Width) {
		out.Variants[strconv.Itoa(size)+"w"] = base + "/" + strconv.Itoa(size) + ".webp"
	}
	return out
}

// variantSizes lists the ladder steps narrower than the master.
func variantSizes(spec kindSpec, width int) []int {
	var sizes []int
	for _, size := range spec.ladder {
		if size < width {
			sizes = append(sizes, size)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// centerCrop cuts the largest centered rectangle with the given width/height ratio.
func centerCrop(src image.Image, ratio float64) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return src
	}

	cropW, cropH := w, h
	if float64(w)/float64(h) > ratio {
		cropW = int(float64(h) * ratio)
	} else {
		cropH = int(float64(w) / ratio)
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}

	x := b.Min.X + (w-cropW)/2
	y := b.Min.Y + (h-cropH)/2
	dst := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

// contentHash is stable per (user, kind, processed bytes) so re-uploads dedupe.
func contentHash(userID string, kind models.ImageKind, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:%s:", userID, kind)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cleanup(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
