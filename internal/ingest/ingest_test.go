package ingest

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/miradorstack/spectrum-engine/internal/engine"
	"github.com/miradorstack/spectrum-engine/internal/models"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	messages []publishedMessage
	err      error
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{topic: topic, payload: payload})
	return nil
}

func (f *fakePublisher) on(topic string) []publishedMessage {
	var out []publishedMessage
	for _, m := range f.messages {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func newTestIngester(pub Publisher) (*Ingester, *engine.Engine) {
	eng := engine.New(nil, engine.Options{
		Clock: func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) },
	})
	ingester := NewIngester(nil, eng, pub, Topics{Prefix: "lab"})
	eng.AddObserver(ingester)
	return ingester, eng
}

func TestHandleMessagePublishesReport(t *testing.T) {
	pub := &fakePublisher{}
	ingester, _ := newTestIngester(pub)

	payload := []byte(`{"snapshot":{"signal_scale":"percent","networks":[
		{"bssid":"AA:00:00:00:00:01","channel":6,"signal":80},
		{"bssid":"aa:00:00:00:00:02","channel":11,"signal":20}]}}`)
	if err := ingester.HandleMessage(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reports := pub.on("lab/reports")
	if len(reports) != 1 {
		t.Fatalf("expected one report, got %d", len(reports))
	}
	var report models.Report
	if err := json.Unmarshal(reports[0].payload, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.NetworkCount != 2 || report.ID == "" {
		t.Fatalf("unexpected report %+v", report)
	}
	// quality 20 falls under the weak-signal threshold.
	if len(pub.on("lab/events/interference")) != 1 {
		t.Fatalf("expected an interference event")
	}
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	pub := &fakePublisher{}
	ingester, _ := newTestIngester(pub)

	err := ingester.HandleMessage([]byte(`{not json`))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if utils.OpOf(err) != "ingest.decode" {
		t.Fatalf("expected ingest.decode op, got %q", utils.OpOf(err))
	}
	if len(pub.messages) != 0 {
		t.Fatalf("nothing should be published for a malformed payload")
	}

	err = ingester.HandleMessage([]byte(`{"snapshot":{"signal_scale":"bars"}}`))
	if utils.OpOf(err) != "ingest.validate" {
		t.Fatalf("expected ingest.validate op, got %v", err)
	}
}

func TestHandleMessagePublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	ingester, _ := newTestIngester(pub)

	err := ingester.HandleMessage([]byte(`{"snapshot":{"networks":[]}}`))
	if utils.OpOf(err) != "ingest.publish" {
		t.Fatalf("expected ingest.publish op, got %v", err)
	}
}

func TestTargetEventsPublished(t *testing.T) {
	pub := &fakePublisher{}
	ingester, eng := newTestIngester(pub)
	eng.TrackTarget("aa:00:00:00:00:01", "lab")

	payload := []byte(`{"snapshot":{"networks":[{"bssid":"AA:00:00:00:00:01","channel":1,"signal":-45}]},
		"location":{"latitude":10,"longitude":20,"valid":true}}`)
	if err := ingester.HandleMessage(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := pub.on("lab/events/target")
	if len(events) != 1 {
		t.Fatalf("expected one target event, got %d", len(events))
	}
	var event TargetEvent
	if err := json.Unmarshal(events[0].payload, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Target.CurrentSignal == nil || *event.Target.CurrentSignal != -45 {
		t.Fatalf("unexpected target event %+v", event.Target)
	}
	if event.Target.Target.StrongestLocation == nil || event.Target.Target.StrongestLocation.Latitude != 10 {
		t.Fatalf("expected strongest location to be recorded")
	}
}

func TestTopics(t *testing.T) {
	topics := Topics{Prefix: "spectrum"}
	if topics.Snapshots() != "spectrum/snapshots" || topics.InterferenceEvents() != "spectrum/events/interference" {
		t.Fatalf("unexpected topic layout")
	}
	if id := clientID(""); len(id) != len("spectrum-engine-")+8 {
		t.Fatalf("unexpected client id %q", id)
	}
}
