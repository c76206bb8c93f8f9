package connectapi

import (
	"context"
	"time"

	"github.com/creatorlane/connect/internal/connectview"
)

// Backend returns a connectview.Backend backed by this client. Member
// identity arguments are carried by the bearer token; the server resolves
// them from the session, so the IDs passed through the interface are not
// sent on the wire.
func (c *Client) Backend() connectview.Backend {
	return &backendAdapter{client: c}
}

type backendAdapter struct {
	client *Client
}

func (b *backendAdapter) ListCreators(ctx context.Context, limit int) ([]connectview.Creator, error) {
	resp, err := b.client.ListCreators(ctx, limit)
	if err != nil {
		return nil, err
	}
	creators := make([]connectview.Creator, len(resp.Creators))
	for i, c := range resp.Creators {
		creators[i] = connectview.Creator{
			ID:            c.ID,
			Name:          c.Name,
			AvatarURL:     c.AvatarURL,
			Tier:          c.Tier,
			FollowerCount: c.FollowerCount,
			Bio:           c.Bio,
		}
	}
	return creators, nil
}

func (b *backendAdapter) ListConnections(ctx context.Context, _ string, limit int) ([]connectview.Connection, error) {
	resp, err := b.client.ListConnections(ctx, limit)
	if err != nil {
		return nil, err
	}
	conns := make([]connectview.Connection, len(resp.Connections))
	for i, c := range resp.Connections {
		conns[i] = connectview.Connection{
			ID:        c.ID,
			ProfileID: c.ProfileID,
			Name:      c.Name,
			AvatarURL: c.AvatarURL,
			Role:      c.Role,
			Bio:       c.Bio,
		}
	}
	return conns, nil
}

func (b *backendAdapter) CreateConnection(ctx context.Context, _, creatorID, _ string, _ time.Time) error {
	_, err := b.client.Follow(ctx, creatorID)
	return err
}

func (b *backendAdapter) DeleteConnection(ctx context.Context, _, creatorID string) error {
	return b.client.Unfollow(ctx, creatorID)
}

func (b *backendAdapter) ListMessages(ctx context.Context, _ string, limit int) ([]connectview.Message, error) {
	resp, err := b.client.Inbox(ctx, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]connectview.Message, len(resp.Messages))
	for i, m := range resp.Messages {
		messages[i] = connectview.Message{
			ID:              m.ID,
			SenderID:        m.SenderID,
			SenderName:      m.SenderName,
			SenderAvatarURL: m.SenderAvatarURL,
			Body:            m.Body,
			SentAt:          m.Timestamp,
			Read:            m.Read,
		}
	}
	return messages, nil
}

func (b *backendAdapter) CreateMessage(ctx context.Context, _, recipientID, body string, _ time.Time) error {
	_, err := b.client.SendMessage(ctx, recipientID, body)
	return err
}
