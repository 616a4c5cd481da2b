package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"network_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageStore struct {
	messages  []models.Message
	insertErr error
	latestErr error
}

var _ MessageStore = (*fakeMessageStore)(nil)

func (f *fakeMessageStore) Insert(_ context.Context, message models.Message) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageStore) Conversation(_ context.Context, userA, userB string) ([]models.Message, error) {
	pair := models.ConversationID(userA, userB)
	var conversation []models.Message
	for _, m := range f.messages {
		if m.ConversationID == pair {
			conversation = append(conversation, m)
		}
	}
	sort.SliceStable(conversation, func(i, j int) bool {
		return conversation[i].CreatedAt < conversation[j].CreatedAt
	})
	return conversation, nil
}

func (f *fakeMessageStore) Latest(ctx context.Context, userA, userB string) (*models.Message, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	conversation, err := f.Conversation(ctx, userA, userB)
	if err != nil || len(conversation) == 0 {
		return nil, err
	}
	return &conversation[len(conversation)-1], nil
}

func newChatService(peers map[string][]string) (*ChatService, *fakeMessageStore) {
	store := &fakeMessageStore{}
	connections := newFakeConnectionStore()
	for user, ids := range peers {
		connections.edges[user] = ids
	}
	return &ChatService{Messages: store, Connections: connections}, store
}

func TestSendMessageValidates(t *testing.T) {
	cs, _ := newChatService(nil)

	_, err := cs.SendMessage(context.Background(), "A", "B", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cs.SendMessage(context.Background(), "", "B", "hi")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendMessageStampsAndPersists(t *testing.T) {
	cs, store := newChatService(nil)

	message, err := cs.SendMessage(context.Background(), "A", "B", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, message.MessageID)
	assert.Equal(t, models.ConversationID("A", "B"), message.ConversationID)
	assert.NotEmpty(t, message.CreatedAt)
	require.Len(t, store.messages, 1)
}

func TestHistoryRoundTripPreservesSendOrder(t *testing.T) {
	cs, _ := newChatService(nil)
	ctx := context.Background()

	_, err := cs.SendMessage(ctx, "A", "B", "hi")
	require.NoError(t, err)
	_, err = cs.SendMessage(ctx, "B", "A", "hey")
	require.NoError(t, err)

	history, err := cs.History(ctx, "A", "B")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Content)
	assert.Equal(t, "hey", history[1].Content)
	assert.LessOrEqual(t, history[0].CreatedAt, history[1].CreatedAt)

	// Symmetric: querying from B's side yields the same order.
	mirrored, err := cs.History(ctx, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, history, mirrored)
}

func TestSendMessageSurfacesStoreFailure(t *testing.T) {
	cs, store := newChatService(nil)
	store.insertErr = errors.New("table unavailable")

	_, err := cs.SendMessage(context.Background(), "A", "B", "hi")
	assert.Error(t, err)
}

func TestRecentMessagesPlaceholderForSilentConnection(t *testing.T) {
	cs, _ := newChatService(map[string][]string{"A": {"B"}})

	summaries, err := cs.RecentMessages(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "B", summaries[0].ConnectionID)
	assert.Equal(t, PlaceholderRecentMessage, summaries[0].RecentMessage)
	assert.Nil(t, summaries[0].Time)
}

func TestRecentMessagesPicksLatestPerPeer(t *testing.T) {
	cs, store := newChatService(map[string][]string{"A": {"B", "C"}})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, m := range []struct{ sender, receiver, content string }{
		{"A", "B", "first"},
		{"B", "A", "second"},
		{"C", "A", "only one"},
	} {
		store.messages = append(store.messages, models.Message{
			MessageID:      fmt.Sprintf("m-%d", i),
			ConversationID: models.ConversationID(m.sender, m.receiver),
			Sender:         m.sender,
			Receiver:       m.receiver,
			Content:        m.content,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339Nano),
		})
	}

	summaries, err := cs.RecentMessages(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byPeer := map[string]RecentSummary{}
	for _, s := range summaries {
		byPeer[s.ConnectionID] = s
	}
	assert.Equal(t, "second", byPeer["B"].RecentMessage)
	require.NotNil(t, byPeer["B"].Time)
	assert.Equal(t, "only one", byPeer["C"].RecentMessage)
}

func TestRecentMessagesIsolatesPeerFailures(t *testing.T) {
	cs, store := newChatService(map[string][]string{"A": {"B"}})
	store.latestErr = errors.New("query failed")

	summaries, err := cs.RecentMessages(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, PlaceholderRecentMessage, summaries[0].RecentMessage)
}
