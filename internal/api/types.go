package api

import (
	"github.com/pixil98/go-town/internal/geometry"
	"github.com/pixil98/go-town/internal/town"
)

// envelope is the wire format every REST response is wrapped in.
type envelope struct {
	IsOK     bool   `json:"isOK"`
	Message  string `json:"message,omitempty"`
	Response any    `json:"response,omitempty"`
}

type townCreateRequest struct {
	FriendlyName     string `json:"friendlyName"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

type townCreateResponse struct {
	CoveyTownID       string `json:"coveyTownID"`
	CoveyTownPassword string `json:"coveyTownPassword"`
}

type townListResponse struct {
	Towns []town.TownListing `json:"towns"`
}

type townUpdateRequest struct {
	CoveyTownPassword string  `json:"coveyTownPassword"`
	FriendlyName      *string `json:"friendlyName,omitempty"`
	IsPubliclyListed  *bool   `json:"isPubliclyListed,omitempty"`
}

type townDeleteRequest struct {
	CoveyTownPassword string `json:"coveyTownPassword"`
}

type townJoinRequest struct {
	UserName    string `json:"userName"`
	CoveyTownID string `json:"coveyTownID"`
}

type townJoinResponse struct {
	CoveyUserID        string                   `json:"coveyUserID"`
	CoveySessionToken  string                   `json:"coveySessionToken"`
	ProviderVideoToken string                   `json:"providerVideoToken"`
	CurrentPlayers     []*town.Player           `json:"currentPlayers"`
	FriendlyName       string                   `json:"friendlyName"`
	IsPubliclyListed   bool                     `json:"isPubliclyListed"`
	ConversationAreas  []*town.ConversationArea `json:"conversationAreas"`
}

type conversationAreaSpec struct {
	Label       string               `json:"label"`
	Topic       string               `json:"topic"`
	BoundingBox geometry.BoundingBox `json:"boundingBox"`
}

type conversationAreaCreateRequest struct {
	SessionToken     string               `json:"sessionToken"`
	ConversationArea conversationAreaSpec `json:"conversationArea"`
}
