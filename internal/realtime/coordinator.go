package realtime

import (
	"context"
	"encoding/json"

	"github.com/asaskevich/EventBus"

	"github.com/storefront/catalog/internal/application/services"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// Coordinator keeps every connected client's view of the catalog and the
// chat log consistent with the store. There is no diffing: any change
// triggers a full-state rebroadcast to all clients, which is fine at the
// scale this service runs at.
type Coordinator struct {
	hub      *Hub
	products ports.ProductService
	messages ports.MessageService
	logger   *logger.Logger
}

// NewCoordinator wires the coordinator to the hub and subscribes it to
// the mutation topics, so both socket events and HTTP mutations reach
// connected clients.
func NewCoordinator(hub *Hub, products ports.ProductService, messages ports.MessageService, bus EventBus.Bus, logger *logger.Logger) (*Coordinator, error) {
	c := &Coordinator{
		hub:      hub,
		products: products,
		messages: messages,
		logger:   logger.WithComponent("coordinator"),
	}

	hub.onConnect = c.handleConnect
	hub.onEvent = c.handleEvent

	if err := bus.Subscribe(services.TopicProductsChanged, c.BroadcastProducts); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(services.TopicMessagesChanged, c.BroadcastMessages); err != nil {
		return nil, err
	}
	return c, nil
}

// handleConnect pushes the current full state to a newly connected
// client. Fetch failures become error events broadcast to everyone, the
// connection itself stays up.
func (c *Coordinator) handleConnect(client *Client) {
	ctx := context.Background()

	messages, err := c.messages.List(ctx)
	if err != nil {
		c.logger.Errorw("Message log fetch failed", "error", err.Error())
		c.hub.Broadcast(EventMsgError, err.Error())
	} else {
		client.SendEvent(EventMessages, messages)
	}

	products, err := c.products.List(ctx)
	if err != nil {
		c.logger.Errorw("Product fetch failed", "error", err.Error())
		c.hub.Broadcast(EventProdError, err.Error())
	} else {
		client.SendEvent(EventProducts, products)
	}
}

// handleEvent dispatches a decoded client frame. Errors are converted to
// the matching error event; a bad frame from one client must not affect
// the others.
func (c *Coordinator) handleEvent(client *Client, env Envelope) {
	ctx := context.Background()

	switch env.Event {
	case EventNewMessage:
		if !json.Valid(env.Data) || len(env.Data) == 0 {
			client.SendEvent(EventMsgError, "message payload must be valid JSON")
			return
		}
		// Append publishes the change topic, which triggers the
		// rebroadcast of the full log to every client.
		if _, err := c.messages.Append(ctx, env.Data); err != nil {
			c.hub.Broadcast(EventMsgError, err.Error())
		}
	case EventProductEvent:
		// Signal only: re-fetch and push the list to everyone.
		c.BroadcastProducts()
	default:
		client.SendEvent(EventMsgError, "unknown event: "+env.Event)
	}
}

// BroadcastProducts re-fetches the product collection and pushes it to
// every connected client.
func (c *Coordinator) BroadcastProducts() {
	products, err := c.products.List(context.Background())
	if err != nil {
		c.hub.Broadcast(EventProdError, err.Error())
		return
	}
	c.hub.Broadcast(EventProducts, products)
}

// BroadcastMessages re-fetches the message log and pushes it to every
// connected client.
func (c *Coordinator) BroadcastMessages() {
	messages, err := c.messages.List(context.Background())
	if err != nil {
		c.hub.Broadcast(EventMsgError, err.Error())
		return
	}
	c.hub.Broadcast(EventMessages, messages)
}
