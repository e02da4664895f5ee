package triage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/mould-triage/internal/application"
	appai "github.com/bryanwahyu/mould-triage/internal/application/ai"
	"github.com/bryanwahyu/mould-triage/internal/domain/ai"
	domain "github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/infra/imagefile"
)

// Service runs one image through load → analyze → classify → publish.
// It keeps no state between requests.
type Service struct {
	Vision    ai.Client
	Publisher domain.Publisher
	Uploads   domain.ImageStore
	Queues    domain.QueueNames
	Clock     application.Clock
	// Observe is called once per request with the terminal outcome; optional
	Observe func(*domain.Outcome, error)
}

// AnalyzeFile runs the pipeline on an image already on disk.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*domain.Outcome, error) {
	out := s.receive(path)
	if err := imagefile.CheckExtension(path); err != nil {
		return s.finish(out, err)
	}
	data, err := imagefile.ReadFile(path)
	if err != nil {
		return s.finish(out, err)
	}
	return s.run(ctx, out, domain.AnalysisRequest{ID: out.ID, Image: data, Source: path})
}

// AnalyzeUpload stages an uploaded image, runs the pipeline on it and removes the
// staged copy on every exit path.
func (s *Service) AnalyzeUpload(ctx context.Context, filename string, r io.Reader, size int64) (*domain.Outcome, error) {
	name := UploadName(filename)
	out := s.receive(name)
	if strings.TrimSpace(filename) == "" {
		return s.finish(out, fmt.Errorf("%w: empty filename", domain.ErrUnsupportedFormat))
	}
	if err := imagefile.CheckExtension(name); err != nil {
		return s.finish(out, err)
	}
	if s.Uploads == nil {
		return s.finish(out, errors.New("upload store is not configured"))
	}

	key := string(out.ID) + "-" + name
	if err := s.Uploads.Put(ctx, key, r, size); err != nil {
		return s.finish(out, fmt.Errorf("%w: %v", domain.ErrUploadStaging, err))
	}
	defer func() {
		// the request context may already be done; cleanup must still happen
		if err := s.Uploads.Remove(context.WithoutCancel(ctx), key); err != nil {
			log.Printf("id=%s key=%s cleanup error: %v", out.ID, key, err)
		}
	}()

	data, err := s.Uploads.Get(ctx, key)
	if err != nil {
		return s.finish(out, err)
	}
	return s.run(ctx, out, domain.AnalysisRequest{ID: out.ID, Image: data, Source: name})
}

func (s *Service) receive(source string) *domain.Outcome {
	out := &domain.Outcome{
		ID:     domain.RequestID(uuid.New().String()),
		Source: source,
		State:  domain.StateReceived,
	}
	log.Printf("id=%s source=%q state=%s", out.ID, source, out.State)
	return out
}

func (s *Service) run(ctx context.Context, out *domain.Outcome, req domain.AnalysisRequest) (*domain.Outcome, error) {
	s.advance(out, domain.StateLoaded)

	// Analyzed
	result := appai.NewService(s.Vision).Analyze(ctx, req)
	s.advance(out, domain.StateAnalyzed)

	// Classified
	out.Label = domain.Classify(result)
	out.Result = result.Text
	s.advance(out, domain.StateClassified)

	if out.Label == domain.LabelAnalysisError {
		s.advance(out, domain.StateErrored)
		return s.finish(out, result.Err)
	}

	queue, err := s.Queues.For(out.Label)
	if err != nil {
		return s.finish(out, err)
	}
	msg := domain.NewQueueMessage(s.Clock.Now(), result.Text, req.Source, queue)
	out.Queue = queue

	if err := s.Publisher.Publish(ctx, queue, req.ID, msg); err != nil {
		// classification stands; only delivery failed
		return s.finish(out, err)
	}
	out.Message = &msg
	s.advance(out, domain.StatePublished)
	return s.finish(out, nil)
}

func (s *Service) advance(out *domain.Outcome, st domain.State) {
	out.State = st
	switch st {
	case domain.StateClassified:
		log.Printf("id=%s state=%s label=%s", out.ID, st, out.Label)
	case domain.StatePublished:
		log.Printf("id=%s state=%s queue=%s", out.ID, st, out.Queue)
	default:
		log.Printf("id=%s state=%s", out.ID, st)
	}
}

func (s *Service) finish(out *domain.Outcome, err error) (*domain.Outcome, error) {
	if err != nil {
		log.Printf("id=%s state=%s error: %v", out.ID, out.State, err)
	}
	if s.Observe != nil {
		s.Observe(out, err)
	}
	return out, err
}

// UploadName builds a safe staging name from a client filename: the sanitized
// stem, or "upload" when nothing usable is left, plus the lower-cased extension.
// The extension is kept as given; callers still run CheckExtension on the result.
func UploadName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := SecureFilename(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "upload"
	}
	return stem + ext
}

// SecureFilename strips directories and keeps letters, digits, dot, dash and
// underscore. It returns "" when nothing usable is left.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
