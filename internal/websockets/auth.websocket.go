package websockets

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	authRequest := Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_REQUEST,
		Channel:   "system",
		Action:    "authenticate",
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		log.Er("failed to send auth request", err)
		return err
	}

	return nil
}

func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(AUTH_HANDSHAKE_TIMEOUT)
		if c.Status != STATUS_UNAUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID)

		timeout := Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_AUTH_FAILURE,
			Channel:   "system",
			Action:    "authentication_timeout",
			Data:      map[string]any{"reason": "Authentication timeout"},
			Timestamp: time.Now(),
		}

		select {
		case c.send <- timeout:
			time.Sleep(100 * time.Millisecond)
		default:
		}

		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	}()
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		c.sendAuthFailure("Invalid token format")
		return
	}

	tokenInfo, err := c.Manager.sessions.ValidateToken(context.Background(), token)
	if err != nil {
		log.Info("Websocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	user, err := c.Manager.users.GetByID(context.Background(), tokenInfo.UserID)
	if err != nil {
		log.Info("Websocket user not found", "clientID", c.ID, "userID", tokenInfo.UserID)
		c.sendAuthFailure("User not found")
		return
	}

	if !user.IsActive {
		c.sendAuthFailure("Account deactivated")
		return
	}

	c.Status = STATUS_AUTHENTICATED
	c.UserID = user.ID

	log.Info("Websocket client authenticated", "clientID", c.ID, "userID", user.ID)

	authSuccess := Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Channel:   "system",
		Action:    "authenticated",
		UserID:    c.UserID.String(),
		Data:      map[string]any{"userId": c.UserID.String()},
		Timestamp: time.Now(),
	}

	c.send <- authSuccess
}

func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	authFailure := Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	}

	c.send <- authFailure

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	log := c.Manager.log.Function("handleUnauthenticatedMessage")

	log.Warn("Blocking message from unauthenticated client",
		"clientID", c.ID, "messageType", message.Type)

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_required",
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	}
}
