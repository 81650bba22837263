package audit

import "time"

// EventType labels what happened. One event per successful mutation.
type EventType string

const (
	EventRegistryInitialized EventType = "registry.initialized"
	EventHumanRegistered     EventType = "human.registered"
	EventHumanVerified       EventType = "human.verified"
	EventSessionCreated      EventType = "session.created"
	EventSessionClosed       EventType = "session.closed"
	EventSessionExtended     EventType = "session.extended"
	EventInteractionRecorded EventType = "interaction.recorded"
	EventFundsDeposited      EventType = "funds.deposited"
)

// Event is one structured audit record. Actor is the authenticated caller;
// Subject is the wallet whose records were touched (they differ when a
// verifier activates someone else's identity). Keep it transport-agnostic
// so stores and sinks can fan out.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Actor     string            `json:"actor"`
	Subject   string            `json:"subject,omitempty"`
	Client    string            `json:"client,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
