package activity

import (
	"errors"
	"testing"
	"time"
)

func TestBuildRenderCompletedEventMetadata(t *testing.T) {
	meta := map[string]any{"template": "greeting"}
	event := BuildRenderCompletedEvent(RenderEventInput{
		ActorID:   " actor ",
		RenderID:  " r-1 ",
		Engine:    "expr",
		Receiver:  "view",
		Namespace: "Views",
		Duration:  1500 * time.Millisecond,
		Metadata:  meta,
	})

	if event.Verb != VerbRenderCompleted || event.ObjectType != ObjectRender {
		t.Fatalf("unexpected verb/object: %+v", event)
	}
	if event.ObjectID != "r-1" || event.ActorID != "actor" {
		t.Fatalf("expected trimmed identifiers, got %+v", event)
	}
	if event.Metadata["engine"] != "expr" || event.Metadata["receiver"] != "view" || event.Metadata["namespace"] != "Views" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["duration_ms"] != int64(1500) {
		t.Fatalf("expected duration_ms 1500, got %v", event.Metadata["duration_ms"])
	}
	if _, ok := event.Metadata["error"]; ok {
		t.Fatalf("did not expect error metadata on success")
	}
	event.Metadata["template"] = "changed"
	if meta["template"] != "greeting" {
		t.Fatalf("expected caller metadata untouched")
	}
}

func TestBuildRenderFailedEventCarriesError(t *testing.T) {
	event := BuildRenderFailedEvent(RenderEventInput{RenderID: "r-2", Err: errors.New("boom")})
	if event.Verb != VerbRenderFailed {
		t.Fatalf("expected failed verb, got %s", event.Verb)
	}
	if event.Metadata["error"] != "boom" {
		t.Fatalf("expected error metadata, got %v", event.Metadata["error"])
	}
}

func TestBuildRenderEventDefaultsObjectID(t *testing.T) {
	event := BuildRenderCompletedEvent(RenderEventInput{})
	if event.ObjectID != ObjectRender {
		t.Fatalf("expected object type fallback, got %q", event.ObjectID)
	}
}

func TestBuildSymbolAmbiguousEvent(t *testing.T) {
	owners := []string{"view", "helpers"}
	event := BuildSymbolAmbiguousEvent(RenderEventInput{
		RenderID: "r-3",
		Symbol:   "title",
		Owners:   owners,
	})
	if event.Verb != VerbSymbolAmbiguous || event.ObjectType != ObjectSymbol || event.ObjectID != "title" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Metadata["render_id"] != "r-3" {
		t.Fatalf("expected render_id metadata, got %v", event.Metadata["render_id"])
	}
	got, ok := event.Metadata["owners"].([]string)
	if !ok || len(got) != 2 || got[0] != "view" {
		t.Fatalf("expected owners metadata, got %v", event.Metadata["owners"])
	}
	owners[0] = "changed"
	if got[0] != "view" {
		t.Fatalf("expected owners to be copied")
	}
}
