package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/shopbot/internal/domain/dialog"
)

// ValkeyStore persists dialog sessions using a Valkey-compatible database so
// every replica sees the same pending action.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "shopbot"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// Load implements dialog.SessionStore.
func (s *ValkeyStore) Load(ctx context.Context, id string) (dialog.Session, error) {
	cmd := s.client.B().Get().Key(s.sessionKey(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return idle(id), nil
		}
		return dialog.Session{}, err
	}
	var session dialog.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return dialog.Session{}, err
	}
	return session, nil
}

// Save implements dialog.SessionStore. Idle sessions are deleted.
func (s *ValkeyStore) Save(ctx context.Context, session dialog.Session) error {
	key := s.sessionKey(session.ID)
	if session.State == dialog.StateIdle {
		return s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error()
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(key).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

var _ dialog.SessionStore = (*ValkeyStore)(nil)
