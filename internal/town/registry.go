package town

import (
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
)

// TownListing is one row of the public town directory.
type TownListing struct {
	CoveyTownID      string `json:"coveyTownID"`
	FriendlyName     string `json:"friendlyName"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	MaximumOccupancy int    `json:"maximumOccupancy"`
}

type townRecord struct {
	controller   *TownController
	passwordHash []byte
}

// RegistryOpt configures a TownRegistry.
type RegistryOpt func(*TownRegistry)

// WithListenerFactory attaches a listener built by f to every town the
// registry creates. Used to wire per-town integrations such as the NATS
// event bridge.
func WithListenerFactory(f func(coveyTownID string) TownListener) RegistryOpt {
	return func(r *TownRegistry) {
		r.listenerFactories = append(r.listenerFactories, f)
	}
}

// TownRegistry is the process-wide directory of active town controllers.
// It holds its own lock; controllers do not share state with each other.
// Town ids are uuids and are never reused within a process lifetime.
type TownRegistry struct {
	mu    sync.RWMutex
	towns map[string]*townRecord

	broker            TokenBroker
	listenerFactories []func(coveyTownID string) TownListener
}

// NewTownRegistry creates an empty registry whose towns issue media tokens
// through broker.
func NewTownRegistry(broker TokenBroker, opts ...RegistryOpt) *TownRegistry {
	r := &TownRegistry{
		towns:  map[string]*townRecord{},
		broker: broker,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateTown instantiates and registers a controller for a new town. It
// returns the controller and the town update password; the password is
// stored only as a bcrypt hash, so this is the one chance to capture it.
func (r *TownRegistry) CreateTown(friendlyName string, isPubliclyListed bool) (*TownController, string, error) {
	if friendlyName == "" {
		return nil, "", fmt.Errorf("friendly name is required")
	}

	password, err := gonanoid.New()
	if err != nil {
		return nil, "", fmt.Errorf("generating town password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing town password: %w", err)
	}

	ctl := NewTownController(friendlyName, isPubliclyListed, r.broker)
	for _, f := range r.listenerFactories {
		ctl.AddTownListener(f(ctl.CoveyTownID()))
	}

	r.mu.Lock()
	r.towns[ctl.CoveyTownID()] = &townRecord{controller: ctl, passwordHash: hash}
	r.mu.Unlock()

	return ctl, password, nil
}

// GetControllerForTown returns the controller for coveyTownID, or nil.
func (r *TownRegistry) GetControllerForTown(coveyTownID string) *TownController {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.towns[coveyTownID]
	if !ok {
		return nil
	}
	return rec.controller
}

// ListTowns returns a snapshot of all publicly listed towns.
func (r *TownRegistry) ListTowns() []TownListing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := []TownListing{}
	for _, rec := range r.towns {
		ctl := rec.controller
		if !ctl.IsPubliclyListed() {
			continue
		}
		listings = append(listings, TownListing{
			CoveyTownID:      ctl.CoveyTownID(),
			FriendlyName:     ctl.FriendlyName(),
			CurrentOccupancy: ctl.Occupancy(),
			MaximumOccupancy: ctl.Capacity(),
		})
	}
	return listings
}

// UpdateTown changes a town's friendly name and/or public listing, leaving
// nil fields untouched. Returns false for an unknown town or wrong password.
func (r *TownRegistry) UpdateTown(coveyTownID, password string, friendlyName *string, isPubliclyListed *bool) bool {
	ctl := r.authenticate(coveyTownID, password)
	if ctl == nil {
		return false
	}

	if friendlyName != nil {
		if *friendlyName == "" {
			return false
		}
		ctl.SetFriendlyName(*friendlyName)
	}
	if isPubliclyListed != nil {
		ctl.SetPubliclyListed(*isPubliclyListed)
	}
	return true
}

// DeleteTown disconnects all of a town's players and removes it from the
// directory. Returns false for an unknown town or wrong password.
func (r *TownRegistry) DeleteTown(coveyTownID, password string) bool {
	ctl := r.authenticate(coveyTownID, password)
	if ctl == nil {
		return false
	}

	ctl.DisconnectAllPlayers()

	r.mu.Lock()
	delete(r.towns, coveyTownID)
	r.mu.Unlock()

	return true
}

func (r *TownRegistry) authenticate(coveyTownID, password string) *TownController {
	r.mu.RLock()
	rec, ok := r.towns[coveyTownID]
	r.mu.RUnlock()

	if !ok {
		return nil
	}
	if bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		return nil
	}
	return rec.controller
}
