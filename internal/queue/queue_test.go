package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	evt := MarkedEvent{Date: "2024-01-10", Subject: "Math", RollNumber: "7"}
	if err := PublishMarked(ctx, q, evt); err != nil {
		t.Fatalf("publish: %v", err)
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	select {
	case msg := <-messages:
		if msg.Type != TypeMarked {
			t.Fatalf("type = %q, want %q", msg.Type, TypeMarked)
		}
		got, err := DecodeMarked(msg.Body)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != evt {
			t.Fatalf("event = %+v, want %+v", got, evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPublishRespectsCancellation(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	if err := q.Publish(ctx, Message{Type: TypeMarked}); err != nil {
		t.Fatalf("publish into capacity: %v", err)
	}
	cancel()
	if err := q.Publish(ctx, Message{Type: TypeMarked}); err == nil {
		t.Fatal("publish into full queue with cancelled context must fail")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: TypeMarked, Body: []byte(`{"date":"2024-01-10","subject":"Social Studies"}`)}
	out, err := deserialize(serialize(msg))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if out.Type != msg.Type || string(out.Body) != string(msg.Body) {
		t.Fatalf("round trip = %+v", out)
	}
}
