package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tallykeeper/internal/client/connectivity"
	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/internal/client/replica"
	"github.com/iudanet/tallykeeper/internal/client/storage"
	clientsync "github.com/iudanet/tallykeeper/internal/client/sync"
	"github.com/iudanet/tallykeeper/internal/document"
	"github.com/iudanet/tallykeeper/internal/logging"
	"github.com/iudanet/tallykeeper/internal/models"
)

// memoryRemote удаленный документ в памяти с лентой изменений
type memoryRemote struct {
	mu      sync.Mutex
	body    []byte
	version int
	changes chan remote.VersionToken
	pings   atomic.Int32
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{changes: make(chan remote.VersionToken, 4)}
}

func (m *memoryRemote) token() remote.VersionToken {
	if m.body == nil {
		return ""
	}
	return remote.VersionToken(fmt.Sprintf("v%d", m.version))
}

func (m *memoryRemote) Get(ctx context.Context) (*remote.Fetched, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.body == nil {
		return nil, remote.ErrNotFound
	}
	return &remote.Fetched{Version: m.token(), Body: m.body}, nil
}

func (m *memoryRemote) GetIfChanged(ctx context.Context, last remote.VersionToken) (*remote.Fetched, error) {
	m.mu.Lock()
	same := m.body != nil && last == m.token()
	m.mu.Unlock()
	if same {
		return nil, remote.ErrNotModified
	}
	return m.Get(ctx)
}

func (m *memoryRemote) Put(ctx context.Context, body []byte, expected remote.VersionToken) (remote.VersionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expected != m.token() {
		return "", remote.ErrConflict
	}
	m.body = body
	m.version++
	return m.token(), nil
}

func (m *memoryRemote) Close() error { return nil }

func (m *memoryRemote) Ping(ctx context.Context) error {
	m.pings.Add(1)
	return nil
}

func (m *memoryRemote) Watch(ctx context.Context, onChange func(remote.VersionToken)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-m.changes:
			onChange(v)
		}
	}
}

// publish записывает документ от имени другого устройства
func (m *memoryRemote) publish(t *testing.T, s *models.Snapshot) {
	t.Helper()
	m.mu.Lock()
	revision := int64(m.version + 1)
	body, err := document.NewCodec("").Encode(document.FromSnapshot(s, revision, time.Now()))
	require.NoError(t, err)
	m.body = body
	m.version++
	token := m.token()
	m.mu.Unlock()
	m.changes <- token
}

func yes() clientsync.Confirmer {
	return clientsync.ConfirmerFunc(func(ctx context.Context, kind clientsync.ConfirmKind, message string) (bool, error) {
		return true, nil
	})
}

func openTestSession(t *testing.T, kv storage.KVStore, rem *memoryRemote, debounce time.Duration) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Logger:        logging.Discard(),
		Confirmer:     yes(),
		KV:            kv,
		Debounce:      debounce,
		ProbeInterval: 5 * time.Millisecond,
		ProbeTimeout:  time.Second,
		Open: func(ctx context.Context, cfg *models.SyncConfig) (remote.Store, error) {
			return rem, nil
		},
	})
	require.NoError(t, err)
	return s
}

func configure(t *testing.T, kv storage.KVStore, autoSync bool) {
	t.Helper()
	require.NoError(t, replica.New(kv, time.Now).SaveConfig(context.Background(), &models.SyncConfig{
		Backend:     models.BackendHTTP,
		Endpoint:    "http://sync.example",
		DocumentKey: "family",
		AutoSync:    autoSync,
	}))
}

func TestOpen_RequiresDependencies(t *testing.T) {
	_, err := Open(context.Background(), Options{Confirmer: yes()})
	assert.Error(t, err)
	_, err = Open(context.Background(), Options{Logger: logging.Discard()})
	assert.Error(t, err)
}

func TestOpen_BoltDB(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/tally.db"

	s, err := Open(ctx, Options{Logger: logging.Discard(), Confirmer: yes(), DBPath: path})
	require.NoError(t, err)
	_, err = s.Counters.Add(ctx, "water")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Logger: logging.Discard(), Confirmer: yes(), DBPath: path})
	require.NoError(t, err)
	defer s.Close()

	list, err := s.Counters.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "water", list[0].Name)
}

func TestFlush_AutoSync(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	configure(t, kv, true)

	rem := newMemoryRemote()
	s := openTestSession(t, kv, rem, time.Hour)
	defer s.Close()
	require.True(t, s.AutoSync())

	_, err := s.Counters.Add(ctx, "water")
	require.NoError(t, err)

	result, err := s.Flush(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, clientsync.OutcomeCreatedRemote, result.Outcome)

	st, err := s.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Meta.Pending)
	assert.Equal(t, 1, st.Counters)
	assert.Equal(t, "v1", st.Meta.VersionToken)
}

func TestFlush_ManualSync(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	configure(t, kv, false)

	s := openTestSession(t, kv, newMemoryRemote(), time.Hour)
	defer s.Close()
	assert.False(t, s.AutoSync())

	_, err := s.Counters.Add(ctx, "water")
	require.NoError(t, err)

	result, err := s.Flush(ctx)
	require.NoError(t, err)
	assert.Nil(t, result)

	st, err := s.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Meta.Pending)
}

func TestWatch_PullsRemoteChanges(t *testing.T) {
	kv := storage.NewMemoryStore()
	configure(t, kv, false)

	rem := newMemoryRemote()
	s := openTestSession(t, kv, rem, 10*time.Millisecond)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, func(connectivity.Event) {})
	}()

	other := models.NewSnapshot()
	other.Counters = append(other.Counters, &models.Counter{
		ID:        "remote-1",
		Name:      "from phone",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Records:   []models.Record{},
	})
	rem.publish(t, other)

	require.Eventually(t, func() bool {
		c, err := s.Counters.Resolve(context.Background(), "remote-1")
		return err == nil && c.Name == "from phone"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return rem.pings.Load() > 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_NotConfigured(t *testing.T) {
	s := openTestSession(t, storage.NewMemoryStore(), newMemoryRemote(), time.Second)
	defer s.Close()

	err := s.Watch(context.Background(), nil)
	assert.Equal(t, clientsync.CodeConfigurationRequired, clientsync.CodeOf(err))
}
