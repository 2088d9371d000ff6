package pipeline

import (
	"context"
	"fmt"
	"sync"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/pipeline/rules"
	"deal-intake-be/pkg/stream"
)

// runIngest parses all submitted files as an unordered concurrent batch.
// A failure parsing one file degrades that file only: it is recorded with
// empty content and zero confidence, and the phase continues.
func (s *Sequencer) runIngest(ctx context.Context, files []SubmittedFile) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("at least one file is required")
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		parsed []*entity.ParsedFile
		failed int
	)

	for _, f := range files {
		wg.Add(1)
		go func(f SubmittedFile) {
			defer wg.Done()

			pf := s.ingestOne(ctx, f)

			mu.Lock()
			parsed = append(parsed, pf)
			if pf.ParseError != "" {
				failed++
			}
			done := len(parsed)
			mu.Unlock()

			s.channel.Publish(stream.EventFileParsed, map[string]interface{}{
				"filename":     pf.Filename,
				"documentType": pf.DocumentType,
				"confidence":   pf.Confidence,
				"failed":       pf.ParseError != "",
			})
			s.channel.Publish(stream.EventPhaseProgress, map[string]interface{}{
				"phase":     entity.PhaseIngest,
				"completed": done,
				"total":     len(files),
			})
		}(f)
	}
	wg.Wait()

	s.mutate(func(sess *entity.IntakeSession) {
		sess.Files = parsed
		sess.CompletenessScore, sess.MissingDocuments = rules.Completeness(parsed)
	})
	s.channel.Publish(stream.EventCompletenessCheck, map[string]interface{}{
		"score":   s.session.CompletenessScore,
		"missing": s.session.MissingDocuments,
	})

	return fmt.Sprintf("parsed %d of %d files", len(files)-failed, len(files)), nil
}

func (s *Sequencer) ingestOne(ctx context.Context, f SubmittedFile) *entity.ParsedFile {
	pf := &entity.ParsedFile{
		Filename:  f.Filename,
		MediaType: f.MediaType,
		Size:      int64(len(f.Content)),
	}

	text, tables, err := s.collab.Texts.ExtractText(f.Filename, f.MediaType, f.Content)
	if err != nil {
		s.logger.Warn("Ingest", "File parse failed", map[string]interface{}{
			"session_id": s.session.Id,
			"filename":   f.Filename,
			"error":      err.Error(),
		})
		pf.DocumentType = entity.DocUnknown
		pf.ParseError = err.Error()
		return pf
	}

	pf.Text = text
	pf.Tables = tables
	pf.DocumentType = s.collab.Classifier.Classify(f.Filename, text)

	if s.collab.Contents != nil {
		summary, findings, confidence, err := s.collab.Contents.Extract(ctx, pf)
		if err != nil {
			// Summarization is advisory; keep the parsed text.
			s.logger.Warn("Ingest", "Content extraction degraded", map[string]interface{}{
				"filename": f.Filename,
				"error":    err.Error(),
			})
		}
		pf.Summary = summary
		pf.KeyFindings = findings
		pf.Confidence = confidence
	}
	return pf
}
