package town

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-town/internal/geometry"
)

// ConversationArea is a rectangular zone whose co-located players share a
// topic-labeled conversation. The area owns its occupant list (ids, not
// player handles); the controller is the sole mutator.
type ConversationArea struct {
	Label         string               `json:"label"`
	Topic         string               `json:"topic"`
	BoundingBox   geometry.BoundingBox `json:"boundingBox"`
	OccupantsByID []string             `json:"occupantsByID"`
}

// Validate checks the fields required to create the area.
func (a *ConversationArea) Validate() error {
	el := errors.NewErrorList()

	if a.Label == "" {
		el.Add(fmt.Errorf("label is required"))
	}
	if a.Topic == "" {
		el.Add(fmt.Errorf("topic is required"))
	}
	if a.BoundingBox.Width <= 0 {
		el.Add(fmt.Errorf("bounding box width must be positive"))
	}
	if a.BoundingBox.Height <= 0 {
		el.Add(fmt.Errorf("bounding box height must be positive"))
	}

	return el.Err()
}

func (a *ConversationArea) addOccupant(id string) {
	a.OccupantsByID = append(a.OccupantsByID, id)
}

func (a *ConversationArea) removeOccupant(id string) {
	a.OccupantsByID = slices.DeleteFunc(a.OccupantsByID, func(o string) bool {
		return o == id
	})
}
