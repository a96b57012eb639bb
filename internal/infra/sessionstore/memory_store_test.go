package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/shopbot/internal/domain/dialog"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	session, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, dialog.StateIdle, session.State)

	require.NoError(t, store.Save(ctx, dialog.Session{ID: "s1", State: dialog.StateAwaitingOrderID}))
	session, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, dialog.StateAwaitingOrderID, session.State)

	require.NoError(t, store.Save(ctx, dialog.Session{ID: "s1", State: dialog.StateIdle}))
	require.Empty(t, store.sessions)
}

func TestMemoryStoreExpiresSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, dialog.Session{ID: "s1", State: dialog.StateAwaitingOrderIDConfirmation}))

	now = now.Add(30 * time.Second)
	session, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, dialog.StateAwaitingOrderIDConfirmation, session.State)

	now = now.Add(time.Minute)
	session, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, dialog.StateIdle, session.State)
	require.Empty(t, store.sessions)
}

func TestMemoryStoreKeepsSessionSavedDuringExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	armed := false
	store.now = func() time.Time {
		if armed {
			// a concurrent turn lands between the expiry check and the delete
			armed = false
			require.NoError(t, store.Save(ctx, dialog.Session{ID: "s1", State: dialog.StateAwaitingOrderID}))
		}
		return now
	}

	require.NoError(t, store.Save(ctx, dialog.Session{ID: "s1", State: dialog.StateAwaitingOrderIDConfirmation}))
	now = now.Add(2 * time.Minute)
	armed = true

	session, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, dialog.StateAwaitingOrderID, session.State)
	require.Contains(t, store.sessions, "s1")
}
