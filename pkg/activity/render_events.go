package activity

import (
	"strings"
	"time"
)

// Verbs and object types emitted by a Binding.
const (
	VerbRenderCompleted = "binding.render.completed"
	VerbRenderFailed    = "binding.render.failed"
	VerbSymbolAmbiguous = "binding.symbol.ambiguous"

	ObjectRender = "binding.render"
	ObjectSymbol = "binding.symbol"
)

// RenderEventInput describes one render and, for ambiguity events, the symbol
// that failed to resolve.
type RenderEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	RenderID   string
	Channel    string
	Engine     string
	Receiver   string
	Namespace  string
	Duration   time.Duration
	Err        error
	Symbol     string
	Owners     []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildRenderCompletedEvent records a successful render.
func BuildRenderCompletedEvent(input RenderEventInput) Event {
	return buildRenderEvent(VerbRenderCompleted, ObjectRender, strings.TrimSpace(input.RenderID), input)
}

// BuildRenderFailedEvent records a render that returned an error.
func BuildRenderFailedEvent(input RenderEventInput) Event {
	return buildRenderEvent(VerbRenderFailed, ObjectRender, strings.TrimSpace(input.RenderID), input)
}

// BuildSymbolAmbiguousEvent records a symbol owned by more than one source.
// The symbol name is the object ID.
func BuildSymbolAmbiguousEvent(input RenderEventInput) Event {
	event := buildRenderEvent(VerbSymbolAmbiguous, ObjectSymbol, strings.TrimSpace(input.Symbol), input)
	if id := strings.TrimSpace(input.RenderID); id != "" {
		event.Metadata = ensureMetadata(event.Metadata)
		event.Metadata["render_id"] = id
	}
	return event
}

func buildRenderEvent(verb, objectType, objectID string, input RenderEventInput) Event {
	metadata := CloneMetadata(input.Metadata)
	set := func(key string, value any) {
		metadata = ensureMetadata(metadata)
		metadata[key] = value
	}
	if input.Engine != "" {
		set("engine", input.Engine)
	}
	if input.Receiver != "" {
		set("receiver", input.Receiver)
	}
	if input.Namespace != "" {
		set("namespace", input.Namespace)
	}
	if input.Duration > 0 {
		set("duration_ms", input.Duration.Milliseconds())
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}
	if len(input.Owners) > 0 {
		set("owners", append([]string{}, input.Owners...))
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
