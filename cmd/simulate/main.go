package main

import (
	"context"
	"encoding/json"
	"fmt"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/pkg/parser"
	"deal-intake-be/pkg/pipeline"
	"deal-intake-be/pkg/stream"
	"deal-intake-be/pkg/tools"

	"github.com/fatih/color"
)

// Dry-run client: executes the full pipeline in-process with no database,
// NATS or LLM, auto-answering any clarification that comes up. Useful for
// eyeballing the event stream without standing up infrastructure.

const incomeStatement = `Sunrise Manor Operating Statement
Total Revenue: $12,400,000
Net Operating Income: $1,860,000
Total Labor Expense: $6,200,000
Occupancy: 88%
`

const rentRoll = `unit,resident,rate
101,occupied,5200
102,occupied,4900
103,vacant,0
`

func main() {
	color.Cyan("=== Deal Intake Pipeline Simulation ===\n")

	session := entity.NewIntakeSession()
	channel := stream.NewChannel(session.Id.String())

	collab := pipeline.Collaborators{
		Texts:      parser.NewPlainTextExtractor(),
		Classifier: parser.NewKeywordClassifier(),
		Contents:   parser.NewContentExtractor(nil),
		Tools:      tools.NewCalculatorRunner(),
	}
	seq := pipeline.NewSequencer(session, channel, collab, logger.Nop())

	files := []pipeline.SubmittedFile{
		{Filename: "income_statement.txt", MediaType: "text/plain", Content: []byte(incomeStatement)},
		{Filename: "rent_roll.csv", MediaType: "text/csv", Content: []byte(rentRoll)},
	}

	sub := channel.Subscribe()
	go seq.Execute(context.Background(), files)

	for ev := range sub.C {
		printEvent(ev)

		if ev.Type == stream.EventClarificationNeeded {
			answers := autoAnswer(seq.Snapshot().Clarifications)
			color.Yellow("  -> auto-answering %d clarification(s)", len(answers))
			seq.Resume(answers)
		}
	}

	final := seq.Snapshot()
	color.Cyan("\n=== Final State ===")
	color.Cyan("Status: %s", final.Status)
	if final.Synthesis != nil {
		color.Green("Recommendation: %s (confidence %d)", final.Synthesis.Recommendation, final.Synthesis.ConfidenceScore)
		color.Green("Thesis: %s", final.Synthesis.InvestmentThesis)
	}
	if final.Error != "" {
		color.Red("Error: %s", final.Error)
	}
}

func autoAnswer(requests []entity.ClarificationRequest) []entity.ClarificationAnswer {
	answers := make([]entity.ClarificationAnswer, 0, len(requests))
	for _, req := range requests {
		answer := entity.ClarificationAnswer{RequestId: req.Id, Action: entity.AnswerAccept}
		if req.Type == entity.ClarificationMissing && req.FieldPath == "dealName" {
			answer = entity.ClarificationAnswer{
				RequestId: req.Id,
				Action:    entity.AnswerOverride,
				Value:     "Sunrise Manor Portfolio",
			}
		}
		answers = append(answers, answer)
	}
	return answers
}

func printEvent(ev stream.Event) {
	data, _ := json.Marshal(ev.Data)
	line := fmt.Sprintf("[%s] %s %s", ev.Timestamp.Format("15:04:05.000"), ev.Type, data)

	switch ev.Type {
	case stream.EventPipelineStarted, stream.EventPipelineComplete:
		color.Cyan(line)
	case stream.EventPipelineError:
		color.Red(line)
	case stream.EventRedFlag, stream.EventClarificationNeeded:
		color.Yellow(line)
	case stream.EventPhaseCompleted, stream.EventDealCreated:
		color.Green(line)
	case stream.EventHeartbeat:
		// quiet
	default:
		fmt.Println(line)
	}
}
