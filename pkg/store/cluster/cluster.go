// Package cluster replicates the alert snapshot between console replicas so
// every instance serves the same view regardless of which one last polled the
// backend. Replication is whole-snapshot: the newest refresh wins, matching
// the wholesale-replace semantics of the local store.
package cluster

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/store"
	"github.com/hashicorp/memberlist"
	"go.uber.org/zap"
)

// snapshot is the replicated unit: one full alert sequence stamped with the
// refresh time it came from.
type snapshot struct {
	RefreshedAt time.Time      `json:"refreshed_at"`
	Alerts      []models.Alert `json:"alerts"`
}

// Replicator gossips alert snapshots across console replicas.
type Replicator struct {
	ml         *memberlist.Memberlist
	broadcasts *memberlist.TransmitLimitedQueue
	store      *store.Store[models.Alert]
	delegate   *delegate
	joinAddrs  []string
}

// delegate handles memberlist events and state exchange.
type delegate struct {
	broadcasts *memberlist.TransmitLimitedQueue
	replicator *Replicator
}

// NewReplicator creates a replicator around the given alert store. joinAddrs
// lists peer addresses to contact on startup; an empty list forms a new
// cluster others can join later.
func NewReplicator(alerts *store.Store[models.Alert], joinAddrs []string) *Replicator {
	r := &Replicator{
		store:     alerts,
		joinAddrs: joinAddrs,
	}
	r.delegate = &delegate{replicator: r}
	return r
}

// Initialize sets up the memberlist cluster and attempts to join the
// configured peers.
func (r *Replicator) Initialize() error {
	hostname, _ := os.Hostname()
	config := memberlist.DefaultLANConfig()
	config.Name = hostname
	config.Delegate = r.delegate
	config.Events = r.delegate

	log.Debug("Initializing memberlist with config",
		zap.String("hostname", hostname))

	ml, err := memberlist.Create(config)
	if err != nil {
		log.Error("Failed to create memberlist", zap.Error(err))
		return fmt.Errorf("failed to create memberlist: %w", err)
	}
	r.ml = ml

	r.broadcasts = &memberlist.TransmitLimitedQueue{
		NumNodes:       func() int { return r.ml.NumMembers() },
		RetransmitMult: 3,
	}
	r.delegate.broadcasts = r.broadcasts

	if len(r.joinAddrs) > 0 {
		joinCount, err := r.ml.Join(r.joinAddrs)
		if err != nil {
			log.Warn("Failed to join cluster, forming new cluster",
				zap.Error(err),
				zap.Strings("peers", r.joinAddrs))
			// Not fatal: this node forms its own cluster that others
			// can join later.
		} else {
			log.Info("Joined cluster", zap.Int("nodesJoined", joinCount))
		}
	}

	log.Info("Cluster replicator initialized",
		zap.Int("members", r.ml.NumMembers()),
		zap.String("localNode", r.ml.LocalNode().Name))
	return nil
}

// Broadcast queues the freshly accepted snapshot for gossip. Wire this to the
// refresh hook so every accepted poll result propagates.
func (r *Replicator) Broadcast(alerts []models.Alert, at time.Time) {
	if r.broadcasts == nil || r.ml == nil {
		log.Debug("Skipping broadcast - memberlist not initialized")
		return
	}

	data, err := json.Marshal(snapshot{RefreshedAt: at, Alerts: alerts})
	if err != nil {
		log.Error("Failed to marshal snapshot for broadcast", zap.Error(err))
		return
	}

	r.broadcasts.QueueBroadcast(&broadcast{msg: data, at: at})
	log.Debug("Broadcast snapshot to cluster",
		zap.Int("alerts", len(alerts)),
		zap.Time("refreshedAt", at),
		zap.Int("clusterSize", r.ml.NumMembers()))
}

// apply replaces the local store with an incoming snapshot if it is newer
// than the current one. Stale snapshots are dropped.
func (r *Replicator) apply(snap snapshot) {
	if !snap.RefreshedAt.After(r.store.RefreshedAt()) {
		log.Debug("Dropping stale snapshot",
			zap.Time("incoming", snap.RefreshedAt),
			zap.Time("current", r.store.RefreshedAt()))
		return
	}
	r.store.ReplaceAt(snap.Alerts, snap.RefreshedAt)
	log.Debug("Applied replicated snapshot",
		zap.Int("alerts", len(snap.Alerts)),
		zap.Time("refreshedAt", snap.RefreshedAt))
}

// Close leaves the cluster.
func (r *Replicator) Close() error {
	if r.ml != nil {
		log.Info("Leaving cluster",
			zap.String("node", r.ml.LocalNode().Name),
			zap.Int("clusterSize", r.ml.NumMembers()))
		return r.ml.Leave(5 * time.Second)
	}
	return nil
}

// NodeMeta is used to retrieve meta-data about the current node.
func (d *delegate) NodeMeta(limit int) []byte {
	return []byte{}
}

// NotifyMsg is called when a gossiped snapshot arrives.
func (d *delegate) NotifyMsg(data []byte) {
	if len(data) == 0 {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Error("Failed to unmarshal snapshot in NotifyMsg",
			zap.Error(err),
			zap.Int("dataLength", len(data)))
		return
	}

	if d.replicator == nil {
		log.Error("Replicator is nil in NotifyMsg")
		return
	}
	d.replicator.apply(snap)
}

// GetBroadcasts is called when user data broadcasts are needed.
func (d *delegate) GetBroadcasts(overhead, limit int) [][]byte {
	if d.broadcasts == nil {
		return [][]byte{}
	}
	return d.broadcasts.GetBroadcasts(overhead, limit)
}

// LocalState sends the full current snapshot to a joining node.
func (d *delegate) LocalState(join bool) []byte {
	if d.replicator == nil {
		log.Warn("LocalState called but replicator is nil")
		return []byte{}
	}

	snap := snapshot{
		RefreshedAt: d.replicator.store.RefreshedAt(),
		Alerts:      d.replicator.store.Snapshot(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Error("Failed to marshal local state",
			zap.Error(err),
			zap.Int("alertCount", len(snap.Alerts)),
			zap.Bool("joinOperation", join))
		return []byte{}
	}
	log.Debug("Sending local state to remote node",
		zap.Int("alertCount", len(snap.Alerts)),
		zap.Bool("joinOperation", join),
		zap.Int("dataBytes", len(data)))
	return data
}

// MergeRemoteState is invoked when a remote node shares its state.
func (d *delegate) MergeRemoteState(buf []byte, join bool) {
	if len(buf) == 0 {
		log.Debug("Received empty remote state buffer")
		return
	}
	if d.replicator == nil {
		log.Warn("MergeRemoteState called but replicator is nil")
		return
	}

	var snap snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		log.Error("Failed to unmarshal remote state",
			zap.Error(err),
			zap.Int("bufferSize", len(buf)))
		return
	}
	d.replicator.apply(snap)
}

// NotifyJoin is invoked when a node joins the cluster.
func (d *delegate) NotifyJoin(node *memberlist.Node) {
	var clusterSize int
	if d.replicator != nil && d.replicator.ml != nil {
		clusterSize = d.replicator.ml.NumMembers()
	}
	log.Info("Node joined the cluster",
		zap.String("node", node.Name),
		zap.String("address", node.Address()),
		zap.Int("clusterSize", clusterSize))
}

// NotifyLeave is invoked when a node leaves the cluster.
func (d *delegate) NotifyLeave(node *memberlist.Node) {
	var clusterSize int
	if d.replicator != nil && d.replicator.ml != nil {
		clusterSize = d.replicator.ml.NumMembers()
	}
	log.Info("Node left the cluster",
		zap.String("node", node.Name),
		zap.String("address", node.Address()),
		zap.Int("clusterSize", clusterSize))
}

// NotifyUpdate is invoked when a node's metadata is updated.
func (d *delegate) NotifyUpdate(node *memberlist.Node) {
	log.Debug("Node metadata updated",
		zap.String("node", node.Name),
		zap.String("address", node.Address()))
}

// broadcast implements the memberlist.Broadcast interface.
type broadcast struct {
	msg []byte
	at  time.Time
}

// Invalidates drops queued snapshots that are older than this one: only the
// newest snapshot needs to propagate.
func (b *broadcast) Invalidates(other memberlist.Broadcast) bool {
	o, ok := other.(*broadcast)
	return ok && b.at.After(o.at)
}

func (b *broadcast) Message() []byte {
	return b.msg
}

func (b *broadcast) Finished() {}
