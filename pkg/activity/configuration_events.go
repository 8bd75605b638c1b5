package activity

import (
	"context"
	"strings"
	"time"
)

const (
	VerbConfigurationApplied   = "configuration.applied"
	VerbConfigurationAppended  = "configuration.appended"
	VerbConfigurationDefaulted = "configuration.defaulted"
	VerbConfigurationCleared   = "configuration.cleared"

	ObjectTypeConfiguration = "configuration"
)

// Actor identifies who triggered a configuration change.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

type actorKey struct{}

// WithActor attaches actor to ctx so configuration events can name it.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor attached by WithActor.
func ActorFrom(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// ConfigurationEventInput describes the common fields for configuration
// lifecycle events.
type ConfigurationEventInput struct {
	Actor          Actor
	Registry       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Names          []string
	Sources        []string
	StoreSize      int
	OccurredAt     time.Time
}

// BuildConfigurationAppliedEvent describes a store replacement.
func BuildConfigurationAppliedEvent(input ConfigurationEventInput) Event {
	return buildConfigurationEvent(VerbConfigurationApplied, input)
}

// BuildConfigurationAppendedEvent describes an overwrite merge.
func BuildConfigurationAppendedEvent(input ConfigurationEventInput) Event {
	return buildConfigurationEvent(VerbConfigurationAppended, input)
}

// BuildConfigurationDefaultedEvent describes a fill-missing merge.
func BuildConfigurationDefaultedEvent(input ConfigurationEventInput) Event {
	return buildConfigurationEvent(VerbConfigurationDefaulted, input)
}

// BuildConfigurationClearedEvent describes a registry reset.
func BuildConfigurationClearedEvent(input ConfigurationEventInput) Event {
	return buildConfigurationEvent(VerbConfigurationCleared, input)
}

func buildConfigurationEvent(verb string, input ConfigurationEventInput) Event {
	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["names"] = append([]string{}, input.Names...)
	metadata["store_size"] = input.StoreSize
	if len(input.Sources) > 0 {
		metadata["sources"] = append([]string{}, input.Sources...)
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.Registry)
	if objectID == "" {
		objectID = ObjectTypeConfiguration
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.Actor.ActorID),
		UserID:         strings.TrimSpace(input.Actor.UserID),
		TenantID:       strings.TrimSpace(input.Actor.TenantID),
		ObjectType:     ObjectTypeConfiguration,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
