// Package domain contains entities without logic, just meta-data.
package domain

type (
	// ProviderID identifies one registered account/connection.
	ProviderID string

	// RoomID is the canonical identifier of a chat room on its server.
	RoomID string

	// RoomName is the display name of a chat room. It may change on rename
	// and never participates in identity comparison.
	RoomName string
)

// RoomIdentity is a stable identity for a chat room that survives
// disconnection. The live room object may not exist while offline.
type RoomIdentity struct {
	Provider ProviderID
	ID       RoomID
	Name     RoomName
}

// Equal reports whether two identities denote the same room. Only the room
// id matters; the name is display-only.
func (ri RoomIdentity) Equal(other RoomIdentity) bool {
	return ri.ID == other.ID
}

func (ri RoomIdentity) String() string {
	return string(ri.Provider) + "/" + string(ri.ID)
}
