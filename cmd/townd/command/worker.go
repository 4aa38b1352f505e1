package command

import (
	"fmt"

	"github.com/pixil98/go-service/service"
	"github.com/pixil98/go-town/internal/messaging"
	"github.com/pixil98/go-town/internal/town"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	tokenBroker, err := cfg.Broker.buildBroker()
	if err != nil {
		return nil, fmt.Errorf("creating token broker: %w", err)
	}

	// Every town created through the registry gets an event bridge mirroring
	// its lifecycle events onto NATS.
	registry := town.NewTownRegistry(tokenBroker,
		town.WithListenerFactory(func(coveyTownID string) town.TownListener {
			return messaging.NewBridge(coveyTownID, natsServer)
		}))

	return service.WorkerList{
		"nats": natsServer,
		"api":  cfg.Api.buildServer(registry),
	}, nil
}
