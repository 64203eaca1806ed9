package notifyws

import "testing"

func TestPushReportsDelivery(t *testing.T) {
	hub := NewHub()

	if hub.Push("42", []byte("hello")) {
		t.Fatal("push to offline user must report undelivered")
	}

	client := NewClient(hub, nil, "42")
	hub.Register(client)

	if !hub.Push("42", []byte("hello")) {
		t.Fatal("push to registered client must report delivered")
	}
	select {
	case payload := <-client.send:
		if string(payload) != "hello" {
			t.Fatalf("unexpected payload %q", payload)
		}
	default:
		t.Fatal("payload not buffered for client")
	}
}

func TestUnregisterRemovesUserWhenLastClientLeaves(t *testing.T) {
	hub := NewHub()
	first := NewClient(hub, nil, "42")
	second := NewClient(hub, nil, "42")
	hub.Register(first)
	hub.Register(second)

	hub.Unregister(first)
	if !hub.IsOnline("42") {
		t.Fatal("user must stay online while a connection remains")
	}

	hub.Unregister(second)
	if hub.IsOnline("42") {
		t.Fatal("user must go offline after the last connection leaves")
	}
	if hub.Push("42", []byte("x")) {
		t.Fatal("push after full unregister must report undelivered")
	}
}

func TestPushDropsSlowClient(t *testing.T) {
	hub := NewHub()
	client := NewClient(hub, nil, "42")
	hub.Register(client)

	// Fill the client's buffer to simulate a stalled reader.
	for i := 0; i < cap(client.send); i++ {
		if !hub.Push("42", []byte("fill")) {
			t.Fatalf("push %d should be buffered", i)
		}
	}

	if hub.Push("42", []byte("overflow")) {
		t.Fatal("push to a full client must report undelivered")
	}
	if hub.IsOnline("42") {
		t.Fatal("stalled client must be dropped")
	}
}
