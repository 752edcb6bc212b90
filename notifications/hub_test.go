package notifications

import (
	"testing"
	"time"
)

func TestHubRegisterPushUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}
	hub.register <- client

	hub.Push("u1", []byte(`{"title":"Order confirmed"}`))

	select {
	case got := <-client.Send:
		if string(got) != `{"title":"Order confirmed"}` {
			t.Fatalf("unexpected payload: %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for push")
	}

	hub.unregister <- client
}

func TestHubPushOnlyTargetsUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), UserID: "a"}
	b := &Client{Send: make(chan []byte, 10), UserID: "b"}
	hub.register <- a
	hub.register <- b

	hub.Push("a", []byte("hello"))

	select {
	case <-a.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for targeted push")
	}

	select {
	case msg := <-b.Send:
		t.Fatalf("user b should not receive user a's push, got %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
