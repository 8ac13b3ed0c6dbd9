package synchronizer

import (
	"context"
	"fmt"
	"slices"

	"subdaap-sync/feature/library"
)

// Target is the served live model updated after each committed pass.
type Target interface {
	// RefreshDatabases reloads the set of databases.
	RefreshDatabases(ctx context.Context) error
	// Items returns the item collection of a database.
	Items(databaseID int64) library.Collection
	// Containers returns the container collection of a database.
	Containers(databaseID int64) library.Collection
	// ContainerItems returns the membership collection of a container.
	ContainerItems(databaseID, containerID int64) library.Collection
}

// Changes lists the ids a pass asks the live model to update or remove.
type Changes struct {
	Update []int64
	Remove []int64
}

func (c Changes) empty() bool {
	return len(c.Update) == 0 && len(c.Remove) == 0
}

// Propagation is the set of live model instructions derived from a pass.
type Propagation struct {
	DatabaseID      int64
	BaseContainerID int64

	Items          Changes
	Containers     Changes
	BaseMembers    Changes
	OrphanMembers  map[int64][]int64
	ReplacedGroups map[int64][]int64
	RemovedGroups  []int64

	// Full asks the target to realign with every touched id rather than
	// only written ones, and to drop everything else it holds.
	Full bool
}

// plan derives the propagation from a finished session.
func (s *session) plan(full bool) *Propagation {
	p := &Propagation{
		DatabaseID:      s.databaseID,
		BaseContainerID: s.baseID,
		OrphanMembers:   s.orphans,
		ReplacedGroups:  s.members,
		Full:            full,
	}

	pick := func(written, touched []int64) []int64 {
		if full {
			return touched
		}
		return written
	}

	if s.itemsChanged {
		p.Items = Changes{Update: pick(s.items.Written(), s.items.TouchedIDs()), Remove: s.items.Untouched()}
		p.BaseMembers = Changes{Update: pick(s.base.Written(), s.base.TouchedIDs()), Remove: s.base.Untouched()}
	}

	var containers []int64
	if s.baseWritten || full {
		containers = append(containers, s.baseID)
	}
	if s.containersChanged {
		containers = append(containers, pick(s.containers.Written(), s.containers.TouchedIDs())...)
		p.Containers.Remove = s.containers.Untouched()
		p.RemovedGroups = s.containers.Untouched()
	}
	slices.Sort(containers)
	p.Containers.Update = containers

	return p
}

// apply issues the propagation against target.
func (p *Propagation) apply(ctx context.Context, target Target) error {
	if err := target.RefreshDatabases(ctx); err != nil {
		return fmt.Errorf("%w: refresh databases: %w", ErrPropagation, err)
	}

	if err := applyChanges(ctx, target.Items(p.DatabaseID), p.Items, p.Full); err != nil {
		return fmt.Errorf("%w: items: %w", ErrPropagation, err)
	}
	if err := applyChanges(ctx, target.Containers(p.DatabaseID), p.Containers, p.Full); err != nil {
		return fmt.Errorf("%w: containers: %w", ErrPropagation, err)
	}
	if err := applyChanges(ctx, target.ContainerItems(p.DatabaseID, p.BaseContainerID), p.BaseMembers, p.Full); err != nil {
		return fmt.Errorf("%w: base container items: %w", ErrPropagation, err)
	}

	for cid, ids := range p.OrphanMembers {
		target.ContainerItems(p.DatabaseID, cid).RemoveIDs(ids)
	}
	for _, cid := range sortedKeys(p.ReplacedGroups) {
		members := target.ContainerItems(p.DatabaseID, cid)
		members.RemoveIDs(members.IDs())
		if err := members.UpdateIDs(ctx, p.ReplacedGroups[cid]); err != nil {
			return fmt.Errorf("%w: container %d items: %w", ErrPropagation, cid, err)
		}
	}
	for _, cid := range p.RemovedGroups {
		members := target.ContainerItems(p.DatabaseID, cid)
		members.RemoveIDs(members.IDs())
	}
	return nil
}

// applyChanges updates then removes. In full mode every held id that is not
// part of the update set is removed as well.
func applyChanges(ctx context.Context, c library.Collection, changes Changes, full bool) error {
	remove := changes.Remove
	if full {
		keep := make(map[int64]struct{}, len(changes.Update))
		for _, id := range changes.Update {
			keep[id] = struct{}{}
		}
		for _, id := range c.IDs() {
			if _, ok := keep[id]; !ok {
				remove = append(remove, id)
			}
		}
	}

	if len(changes.Update) > 0 {
		if err := c.UpdateIDs(ctx, changes.Update); err != nil {
			return err
		}
	}
	if len(remove) > 0 {
		c.RemoveIDs(remove)
	}
	return nil
}

func sortedKeys(m map[int64][]int64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
