package messaging

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-town/internal/town"
)

// Publisher provides the ability to publish JSON events to subjects
type Publisher interface {
	PublishJSON(subject string, v any) error
}

// Bridge mirrors one town's lifecycle events onto NATS subjects of the form
// town.<coveyTownID>.<kind>. It is registered as a core listener, so publish
// calls run on the mutating goroutine; failures are logged and dropped
// rather than failing the mutation.
type Bridge struct {
	coveyTownID string
	pub         Publisher
}

// NewBridge creates a bridge for the given town.
func NewBridge(coveyTownID string, pub Publisher) *Bridge {
	return &Bridge{coveyTownID: coveyTownID, pub: pub}
}

type playerEvent struct {
	PlayerID string            `json:"playerId"`
	UserName string            `json:"userName"`
	Location town.UserLocation `json:"location"`
}

type areaEvent struct {
	Label         string   `json:"label"`
	Topic         string   `json:"topic"`
	OccupantsByID []string `json:"occupantsByID"`
}

func (b *Bridge) PlayerJoined(p *town.Player) {
	b.publish("player_joined", playerEvent{PlayerID: p.ID, UserName: p.UserName, Location: p.Location})
}

func (b *Bridge) PlayerMoved(p *town.Player) {
	b.publish("player_moved", playerEvent{PlayerID: p.ID, UserName: p.UserName, Location: p.Location})
}

func (b *Bridge) PlayerDisconnected(p *town.Player) {
	b.publish("player_disconnected", playerEvent{PlayerID: p.ID, UserName: p.UserName, Location: p.Location})
}

func (b *Bridge) ConversationAreaUpdated(a *town.ConversationArea) {
	b.publish("conversation_area_updated", areaEvent{Label: a.Label, Topic: a.Topic, OccupantsByID: a.OccupantsByID})
}

func (b *Bridge) ConversationAreaDestroyed(a *town.ConversationArea) {
	b.publish("conversation_area_destroyed", areaEvent{Label: a.Label, Topic: a.Topic, OccupantsByID: a.OccupantsByID})
}

func (b *Bridge) TownDestroyed() {
	b.publish("town_destroyed", struct{}{})
}

func (b *Bridge) publish(kind string, v any) {
	subject := fmt.Sprintf("town.%s.%s", b.coveyTownID, kind)
	if err := b.pub.PublishJSON(subject, v); err != nil {
		slog.Warn("publishing town event", "subject", subject, "error", err)
	}
}
