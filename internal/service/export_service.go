package service

import (
	"context"

	"nashr/internal/export"
	"nashr/internal/models"
	"nashr/internal/observability"
	"nashr/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ExportService renders a single post or all of the caller's posts as a downloadable document.
type ExportService struct {
	postRepo repository.PostRepository
}

func NewExportService(postRepo repository.PostRepository) *ExportService {
	return &ExportService{postRepo: postRepo}
}

// Export always exports on behalf of userID; a single post must be the caller's or published.
func (s *ExportService) Export(ctx context.Context, userID, format, postID string) (doc *export.Document, err error) {
	const failure = "خطا در خروجی گرفتن از داده‌ها"
	if userID == "" {
		return nil, ErrLoginRequired
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, models.NewValidationError("نوع خروجی نامعتبر است")
	}

	ctx, span := observability.StartSpan(ctx, "export.render",
		attribute.String("export.format", string(f)),
		attribute.Bool("export.single", postID != ""),
	)
	defer func() { span.End(err) }()

	var (
		basename string
		value    any
		posts    []models.Post
	)
	if postID != "" {
		post, getErr := s.postRepo.GetForExport(ctx, postID, userID)
		if getErr != nil {
			return nil, internal(failure, notFound(getErr, msgPostNotFound))
		}
		basename = "post-" + postID
		value = post
		posts = []models.Post{*post}
	} else {
		list, listErr := s.postRepo.ListByAuthor(ctx, userID)
		if listErr != nil {
			return nil, internal(failure, listErr)
		}
		if list == nil {
			list = []models.Post{}
		}
		basename = "posts-" + userID
		value = list
		posts = list
	}

	doc, err = export.Render(f, basename, value, posts)
	if err != nil {
		return nil, internal(failure, err)
	}
	observability.ExportsTotal.WithLabelValues(string(f.Rendered())).Inc()
	return doc, nil
}
