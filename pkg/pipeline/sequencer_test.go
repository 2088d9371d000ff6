package pipeline

import (
	"context"
	"testing"
	"time"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/pkg/parser"
	"deal-intake-be/pkg/stream"

	"github.com/stretchr/testify/assert"
)

const incomeStatementText = `Operating Statement
Total Revenue: $1,200,000
Net Operating Income: $180,000
`

func newTestSequencer() (*Sequencer, *stream.Channel) {
	session := entity.NewIntakeSession()
	channel := stream.NewChannel(session.Id.String())
	collab := Collaborators{
		Texts:      parser.NewPlainTextExtractor(),
		Classifier: parser.NewKeywordClassifier(),
	}
	return NewSequencer(session, channel, collab, logger.Nop()), channel
}

// runToCompletion executes the pipeline and answers every clarification pause
// with the supplied answer builder. Returns the observed events.
func runToCompletion(t *testing.T, seq *Sequencer, channel *stream.Channel, files []SubmittedFile, answer func([]entity.ClarificationRequest) []entity.ClarificationAnswer) []stream.Event {
	t.Helper()

	sub := channel.Subscribe()
	go seq.Execute(context.Background(), files)

	var events []stream.Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return events
			}
			events = append(events, ev)

			// Phases never overlap: no observed instant has two running
			// records. While paused, exactly the clarify phase is running.
			snap := seq.Snapshot()
			assert.LessOrEqual(t, runningPhases(snap), 1)
			if ev.Type == stream.EventClarificationNeeded {
				assert.Equal(t, 1, runningPhases(snap))
				assert.Equal(t, entity.PhaseRunning, snap.Phases[entity.PhaseClarify].Status)

				// Status flips to paused before this event publishes, so
				// resuming from the observer side is safe.
				assert.True(t, seq.Resume(answer(snap.Clarifications)))
			}
		case <-timeout:
			t.Fatal("pipeline did not reach a terminal event")
		}
	}
}

func runningPhases(snap entity.IntakeSession) int {
	n := 0
	for _, rec := range snap.Phases {
		if rec.Status == entity.PhaseRunning {
			n++
		}
	}
	return n
}

func eventTypes(events []stream.Event) []stream.EventType {
	out := make([]stream.EventType, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func TestExecutePauseAndResume(t *testing.T) {
	seq, channel := newTestSequencer()
	files := []SubmittedFile{
		{Filename: "statement.txt", MediaType: "text/plain", Content: []byte(incomeStatementText)},
	}

	events := runToCompletion(t, seq, channel, files, func(reqs []entity.ClarificationRequest) []entity.ClarificationAnswer {
		assert.Len(t, reqs, 1)
		assert.Equal(t, "dealName", reqs[0].FieldPath)
		return []entity.ClarificationAnswer{
			{RequestId: reqs[0].Id, Action: entity.AnswerOverride, Value: "Test Portfolio"},
		}
	})

	final := seq.Snapshot()
	assert.Equal(t, entity.SessionCompleted, final.Status)
	assert.NotNil(t, final.Synthesis)
	assert.Equal(t, "Test Portfolio", final.Synthesis.DealName)
	assert.Contains(t, final.Synthesis.InvestmentThesis, "Test Portfolio")

	types := eventTypes(events)
	assert.Contains(t, types, stream.EventClarificationNeeded)
	assert.Contains(t, types, stream.EventClarificationsResolved)
	assert.Equal(t, stream.EventPipelineComplete, types[len(types)-1])
	assert.True(t, channel.Closed())
}

func TestExecuteNoFilesFails(t *testing.T) {
	seq, channel := newTestSequencer()

	events := runToCompletion(t, seq, channel, nil, nil)

	final := seq.Snapshot()
	assert.Equal(t, entity.SessionFailed, final.Status)
	assert.NotEmpty(t, final.Error)

	types := eventTypes(events)
	assert.Equal(t, stream.EventPipelineError, types[len(types)-1])
	assert.NotContains(t, types, stream.EventPipelineComplete)
}

func TestExecuteDegradedFileStillCompletes(t *testing.T) {
	seq, channel := newTestSequencer()
	files := []SubmittedFile{
		{Filename: "statement.txt", MediaType: "text/plain", Content: []byte(incomeStatementText)},
		{Filename: "photo.bin", MediaType: "application/octet-stream", Content: []byte{0x00, 0x01, 0x02}},
	}

	// answer nothing: skipped clarifications must not block completion
	runToCompletion(t, seq, channel, files, func([]entity.ClarificationRequest) []entity.ClarificationAnswer {
		return nil
	})

	final := seq.Snapshot()
	assert.Equal(t, entity.SessionCompleted, final.Status)
	assert.Equal(t, "Unnamed Deal", final.Synthesis.DealName)

	var degraded int
	for _, f := range final.Files {
		if f.ParseError != "" {
			degraded++
		}
	}
	assert.Equal(t, 1, degraded)
	assert.Len(t, final.Files, 2)
}

func TestSnapshotAtPauseIsImmutable(t *testing.T) {
	seq, channel := newTestSequencer()
	files := []SubmittedFile{
		{Filename: "statement.txt", MediaType: "text/plain",
			Content: []byte(incomeStatementText + "Facility: Sunrse Mnr\n")},
	}

	var pauseSnap entity.IntakeSession
	runToCompletion(t, seq, channel, files, func(reqs []entity.ClarificationRequest) []entity.ClarificationAnswer {
		pauseSnap = seq.Snapshot()
		assert.Len(t, reqs, 1)
		assert.Equal(t, entity.ClarificationLowConfidence, reqs[0].Type)
		return []entity.ClarificationAnswer{
			{RequestId: reqs[0].Id, Action: entity.AnswerOverride, Value: "Sunrise Manor"},
		}
	})

	final := seq.Snapshot()
	assert.Equal(t, entity.SessionCompleted, final.Status)
	assert.Equal(t, "Sunrise Manor", final.Deal.Facilities[0].Name)
	assert.Equal(t, 100, final.Deal.Facilities[0].Confidence)

	// the pause-time copy keeps what was extracted; the override written
	// after the resume must not reach it
	assert.Equal(t, entity.SessionPaused, pauseSnap.Status)
	assert.Equal(t, "Sunrse Mnr", pauseSnap.Deal.Facilities[0].Name)
	assert.Equal(t, 40, pauseSnap.Deal.Facilities[0].Confidence)
	assert.Nil(t, pauseSnap.Synthesis)
}

func TestResumeBeforePauseIsNoOp(t *testing.T) {
	seq, _ := newTestSequencer()
	assert.False(t, seq.Resume(nil))
}

func TestSnapshotIsACopy(t *testing.T) {
	seq, channel := newTestSequencer()
	files := []SubmittedFile{
		{Filename: "statement.txt", MediaType: "text/plain", Content: []byte(incomeStatementText)},
	}
	runToCompletion(t, seq, channel, files, func([]entity.ClarificationRequest) []entity.ClarificationAnswer {
		return nil
	})

	snap := seq.Snapshot()
	snap.Status = entity.SessionFailed
	snap.Phases[entity.PhaseIngest].Status = entity.PhaseFailed
	snap.Deal.Financials.Revenue = 0
	snap.Deal.Metrics.PayerMix["medicaid"] = 0.99
	snap.Synthesis.Narrative = "rewritten"
	if len(snap.Synthesis.Strengths) > 0 {
		snap.Synthesis.Strengths[0] = "rewritten"
	}

	fresh := seq.Snapshot()
	assert.Equal(t, entity.SessionCompleted, fresh.Status)
	assert.Equal(t, entity.PhaseCompleted, fresh.Phases[entity.PhaseIngest].Status)
	assert.Equal(t, 1_200_000.0, fresh.Deal.Financials.Revenue)
	assert.NotContains(t, fresh.Deal.Metrics.PayerMix, "medicaid")
	assert.NotEqual(t, "rewritten", fresh.Synthesis.Narrative)
	for _, s := range fresh.Synthesis.Strengths {
		assert.NotEqual(t, "rewritten", s)
	}
}
