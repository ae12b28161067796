package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridianmq/meridian/internal/config"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

const etcdDialTimeout = 5 * time.Second

// etcdBackend lists and registers nodes against an etcd cluster. Each node
// writes its name under a shared key prefix, bound to a lease; the lease
// keepalive (started by PostRegistration) keeps the entry alive, and
// revoking the lease removes it. Registration-capable.
type etcdBackend struct {
	self     NodeName
	client   *clientv3.Client
	prefix   string
	leaseTTL int64
	logger   *zap.Logger

	mu              sync.Mutex
	leaseID         clientv3.LeaseID
	keepAliveCancel context.CancelFunc
}

func newEtcdBackend(cfg *config.DiscoveryConfig) (Backend, error) {
	if len(cfg.EtcdEndpoints) == 0 {
		return nil, fmt.Errorf("etcd backend requires ETCD_ENDPOINTS")
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.EtcdEndpoints,
		DialTimeout: etcdDialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %v", err)
	}

	return &etcdBackend{
		self:     NodeName(cfg.NodeName),
		client:   client,
		prefix:   cfg.EtcdPrefix,
		leaseTTL: cfg.EtcdLeaseTTL,
		logger:   zap.L().Named("etcd-discovery"),
	}, nil
}

// ListNodes reads every registered node under the key prefix, ordered by
// creation revision so the sequence reflects registration order.
func (b *etcdBackend) ListNodes(ctx context.Context) RawResult {
	resp, err := b.client.Get(ctx, b.prefix,
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByCreateRevision, clientv3.SortAscend),
	)
	if err != nil {
		return ErrorResult(fmt.Sprintf("failed to list nodes from etcd: %v", err))
	}

	nodes := make([]NodeName, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		nodes = append(nodes, NodeName(kv.Value))
	}
	return OkNodesResult(nodes)
}

// SupportsRegistration always reports true for the etcd backend.
func (b *etcdBackend) SupportsRegistration() bool {
	return true
}

// Register grants a lease and writes this node's name under it. The entry
// disappears if the lease expires before PostRegistration starts the
// keepalive.
func (b *etcdBackend) Register(ctx context.Context) error {
	lease, err := b.client.Grant(ctx, b.leaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %v", err)
	}

	key := b.prefix + string(b.self)
	if _, err := b.client.Put(ctx, key, string(b.self), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register node: %v", err)
	}

	b.mu.Lock()
	b.leaseID = lease.ID
	b.mu.Unlock()

	return nil
}

// PostRegistration starts the lease keepalive. The keepalive runs for the
// lifetime of the node; a closed channel means the lease is gone and the
// node's entry has expired, which is logged but not retried here.
func (b *etcdBackend) PostRegistration(ctx context.Context) error {
	b.mu.Lock()
	leaseID := b.leaseID
	b.mu.Unlock()

	if leaseID == 0 {
		return fmt.Errorf("no lease to keep alive: register first")
	}

	keepAliveCtx, cancel := context.WithCancel(context.Background())
	keepAliveCh, err := b.client.KeepAlive(keepAliveCtx, leaseID)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to keep lease alive: %v", err)
	}

	b.mu.Lock()
	b.keepAliveCancel = cancel
	b.mu.Unlock()

	go func() {
		for ka := range keepAliveCh {
			if ka == nil {
				break
			}
		}
		b.logger.Warn("etcd lease keepalive channel closed",
			zap.String("node", string(b.self)),
		)
	}()

	return nil
}

// Unregister stops the keepalive and revokes the lease, which removes this
// node's entry from the directory.
func (b *etcdBackend) Unregister(ctx context.Context) error {
	b.mu.Lock()
	leaseID := b.leaseID
	cancel := b.keepAliveCancel
	b.leaseID = 0
	b.keepAliveCancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if leaseID == 0 {
		return nil
	}

	if _, err := b.client.Revoke(ctx, leaseID); err != nil {
		return fmt.Errorf("failed to revoke lease: %v", err)
	}
	return nil
}

// Close releases the etcd client. Not part of the Backend contract; the
// shutdown sequence calls it when the backend exposes it.
func (b *etcdBackend) Close() error {
	return b.client.Close()
}
