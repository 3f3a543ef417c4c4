package repository

import (
	"context"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

const (
	pendingChannelName       = "pending_members_channel"
	pendingReconnectMin      = 10 * time.Second
	pendingReconnectMax      = time.Minute
	pendingKeepaliveInterval = 90 * time.Second
)

// PendingListener is the live subscription to the pending-approvals set. A
// database trigger notifies the channel with the pending row's id whenever
// a submission is inserted or changed; the UI treats any snapshot it holds
// as transient, so missed notifications only delay a refresh.
type PendingListener struct {
	dbURL string
}

var _ ports.PendingWatcher = (*PendingListener)(nil)

func NewPendingListener(dbURL string) *PendingListener {
	return &PendingListener{dbURL: dbURL}
}

// Watch delivers the ids of added or changed pending rows until ctx is
// cancelled. The channel is closed on teardown.
func (l *PendingListener) Watch(ctx context.Context) (<-chan string, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("pending listener: %v", err)
		}
	}

	listener := pq.NewListener(l.dbURL, pendingReconnectMin, pendingReconnectMax, reportProblem)
	if err := listener.Listen(pendingChannelName); err != nil {
		listener.Close()
		return nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer listener.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					// Connection dropped; pq reconnects on its own.
					continue
				}
				select {
				case out <- n.Extra:
				case <-ctx.Done():
					return
				}
			case <-time.After(pendingKeepaliveInterval):
				go listener.Ping()
			}
		}
	}()
	return out, nil
}
