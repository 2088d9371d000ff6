package stream

import "time"

// EventType is the fixed enumeration of pipeline event types.
type EventType string

const (
	EventPipelineStarted        EventType = "pipeline_started"
	EventPhaseStarted           EventType = "phase_started"
	EventPhaseProgress          EventType = "phase_progress"
	EventPhaseCompleted         EventType = "phase_completed"
	EventFileParsed             EventType = "file_parsed"
	EventFieldExtracted         EventType = "field_extracted"
	EventFacilityDetected       EventType = "facility_detected"
	EventCMSMatched             EventType = "cms_matched"
	EventCompletenessCheck      EventType = "completeness_check"
	EventRedFlag                EventType = "red_flag"
	EventClarificationNeeded    EventType = "clarification_needed"
	EventClarificationsResolved EventType = "clarifications_resolved"
	EventDealCreated            EventType = "deal_created"
	EventAnalysisComplete       EventType = "analysis_complete"
	EventToolExecuted           EventType = "tool_executed"
	EventPipelineComplete       EventType = "pipeline_complete"
	EventPipelineError          EventType = "pipeline_error"
	EventHeartbeat              EventType = "heartbeat"
)

// IsTerminal reports whether the event closes the session's channel.
func (t EventType) IsTerminal() bool {
	return t == EventPipelineComplete || t == EventPipelineError
}

// Event is one immutable entry of a session's event log.
type Event struct {
	Type      EventType              `json:"type"`
	SessionId string                 `json:"sessionId"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// EventType satisfies the external bus contract.
func (e Event) EventType() string {
	return string(e.Type)
}

// Payload satisfies the external bus contract.
func (e Event) Payload() map[string]interface{} {
	return e.Data
}
