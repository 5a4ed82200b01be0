package bus

import (
	"context"
	"testing"

	"github.com/aulahub/aulahub-backend/internal/realtime"
)

func TestLocalBus_PublishReachesForwarder(t *testing.T) {
	b := NewLocalBus()
	var got []realtime.Message
	if err := b.StartForwarder(context.Background(), func(m realtime.Message) {
		got = append(got, m)
	}); err != nil {
		t.Fatalf("start forwarder: %v", err)
	}

	msg := realtime.Message{Channel: realtime.UserChannel("ana"), Event: realtime.EventFriendAdded}
	if err := b.Publish(context.Background(), msg); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0].Channel != "user:ana" {
		t.Fatalf("forwarder saw %+v", got)
	}
}

func TestLocalBus_PublishBeforeForwarderIsDropped(t *testing.T) {
	b := NewLocalBus()
	if err := b.Publish(context.Background(), realtime.Message{Channel: "user:ana"}); err != nil {
		t.Fatalf("publish without forwarder must not fail: %v", err)
	}
}
