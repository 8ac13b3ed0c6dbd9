// Package models contains the GORM models of the local catalog store.
//
// A Database row exists per remote connection and owns every other row
// through its id:
//
//   - Container: a playlist, or the single base container holding all items.
//   - ContainerItem: membership of an item in a container. Base container
//     memberships carry no position; playlist memberships do.
//   - Item: a track.
//   - Artist and Album: optional parents of an item.
//
// Rows mirrored from the remote catalog carry the remote identifier in
// remote_id, unique per database, and a checksum over their defining fields.
// persistent_id is generated once on insert and never changes.
package models
