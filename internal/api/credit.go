package api

import (
	"context"
	"net/http"

	"github.com/moneymap/moneytree/internal/model"
)

// CreditConversation returns the advisor history and any finalized stack.
func (c *Client) CreditConversation(ctx context.Context, userID string) (*model.CreditConversation, error) {
	var out model.CreditConversation
	if err := c.do(ctx, http.MethodGet, "/api/credit/chat/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreditChat advances the advisor conversation. An empty message starts it.
func (c *Client) CreditChat(ctx context.Context, userID, message string) (*model.ChatTurn, error) {
	var out model.ChatTurn
	if err := c.do(ctx, http.MethodPost, "/api/credit/chat/"+seg(userID), chatRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinalizeCreditStack freezes the advisor conversation into a card stack.
func (c *Client) FinalizeCreditStack(ctx context.Context, userID string) (*model.CreditCardStack, error) {
	var out model.CreditCardStack
	if err := c.do(ctx, http.MethodPost, "/api/credit/finalize/"+seg(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
