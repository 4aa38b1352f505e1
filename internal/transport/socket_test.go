package transport

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-town/internal/town"
)

func drainFrame(t *testing.T, c *client) frame {
	t.Helper()
	select {
	case data := <-c.send:
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("unmarshalling frame: %v", err)
		}
		return f
	default:
		t.Fatal("no frame queued")
		return frame{}
	}
}

func TestSocketListener_Translation(t *testing.T) {
	p := town.NewPlayer("alice")
	p.Location = town.UserLocation{X: 1, Y: 2, Rotation: town.RotationBack, Moving: true}
	a := &town.ConversationArea{Label: "fountain", Topic: "ducks", OccupantsByID: []string{p.ID}}

	tests := map[string]struct {
		emit    func(l *socketListener)
		expType string
	}{
		"player joined":  {emit: func(l *socketListener) { l.PlayerJoined(p) }, expType: "newPlayer"},
		"player moved":   {emit: func(l *socketListener) { l.PlayerMoved(p) }, expType: "playerMoved"},
		"player left":    {emit: func(l *socketListener) { l.PlayerDisconnected(p) }, expType: "playerDisconnect"},
		"area updated":   {emit: func(l *socketListener) { l.ConversationAreaUpdated(a) }, expType: "conversationUpdated"},
		"area destroyed": {emit: func(l *socketListener) { l.ConversationAreaDestroyed(a) }, expType: "conversationDestroyed"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newClient(nil)
			l := &socketListener{c: c}

			tc.emit(l)

			f := drainFrame(t, c)
			testutil.AssertEqual(t, "type", f.Type, tc.expType)
			switch tc.expType {
			case "newPlayer", "playerMoved", "playerDisconnect":
				testutil.AssertEqual(t, "player id", f.Player.ID, p.ID)
				testutil.AssertEqual(t, "location", f.Player.Location, p.Location)
			default:
				testutil.AssertEqual(t, "area label", f.Area.Label, "fountain")
			}
		})
	}
}

func TestSocketListener_TownDestroyed(t *testing.T) {
	c := newClient(nil)
	l := &socketListener{c: c}

	l.TownDestroyed()

	f := drainFrame(t, c)
	testutil.AssertEqual(t, "type", f.Type, "townClosing")

	select {
	case <-c.quit:
	default:
		t.Error("town teardown should force the socket closed")
	}
}

func TestClient_EnqueueDropsWhenFull(t *testing.T) {
	c := newClient(nil)
	l := &socketListener{c: c}
	p := town.NewPlayer("alice")

	// Fill the queue past capacity; the overflow must be dropped without
	// blocking the (lock-holding) caller.
	for i := 0; i < sendQueueSize+10; i++ {
		l.PlayerMoved(p)
	}

	testutil.AssertEqual(t, "queued", len(c.send), sendQueueSize)
}

func TestFrame_InboundMovementRoundTrip(t *testing.T) {
	data := []byte(`{"type":"playerMovement","location":{"x":12,"y":34,"rotation":"left","moving":true,"conversationLabel":"fountain"}}`)

	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshalling inbound frame: %v", err)
	}

	testutil.AssertEqual(t, "type", f.Type, "playerMovement")
	testutil.AssertEqual(t, "location", *f.Location, town.UserLocation{
		X: 12, Y: 34, Rotation: town.RotationLeft, Moving: true, Conversation: "fountain",
	})
}
