package httpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"

	"github.com/iudanet/tallykeeper/internal/client/remote"
	"github.com/iudanet/tallykeeper/pkg/api"
)

// Watch подписывается на изменения документа через websocket и вызывает
// onChange для каждой новой версии. Блокируется до отмены ctx или разрыва соединения.
func (s *Store) Watch(ctx context.Context, onChange func(version remote.VersionToken)) error {
	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	conn, _, err := websocket.Dial(ctx, s.watchURL(), &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return remote.NewError(backendName, "watch", s.key, fmt.Errorf("%w: %v", remote.ErrNetwork, err))
	}
	defer func() {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return remote.NewError(backendName, "watch", s.key, fmt.Errorf("%w: %v", remote.ErrNetwork, err))
		}

		var event api.ChangeEvent
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		if event.Key != s.key || event.Version == "" {
			continue
		}
		onChange(remote.VersionToken(event.Version))
	}
}

func (s *Store) watchURL() string {
	base := s.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + s.documentPath() + "/watch"
}
