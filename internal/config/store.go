package config

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/dkeye/Conclave/internal/domain"
)

// Key layout: accounts::<provider>::rooms::<roomID>::{name,order,policy,status,nick}.
// Room ids contain dots and at-signs, so the store uses "::" as delimiter.
const keySep = "::"

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Store is the persisted per-room configuration: the room identity list
// itself, the auto-open policy, the last-known online disposition and the
// saved nickname. Writes go through to disk immediately.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// OpenStore loads the store from path. A missing file yields an empty
// store. An empty path keeps the store in memory only.
func OpenStore(path string) (*Store, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keySep))
	v.SetConfigType("yaml")
	s := &Store{v: v, path: path}
	if path == "" {
		return s, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := v.ReadConfig(f); err != nil {
		return nil, err
	}
	return s, nil
}

func roomKey(provider domain.ProviderID, room domain.RoomID, field string) string {
	return strings.Join([]string{"accounts", string(provider), "rooms", string(room), field}, keySep)
}

func seqKey(provider domain.ProviderID) string {
	return strings.Join([]string{"accounts", string(provider), "roomseq"}, keySep)
}

// Rooms returns the persisted room identities of one provider, in the
// order they were first saved. Viper keys come back in map order, so the
// order is carried by an explicit per-room index.
func (s *Store) Rooms(provider domain.ProviderID) []domain.RoomIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := strings.Join([]string{"accounts", string(provider), "rooms"}, keySep) + keySep
	type storedRoom struct {
		identity domain.RoomIdentity
		order    int
	}
	seen := make(map[domain.RoomID]struct{})
	var rooms []storedRoom
	for _, key := range s.v.AllKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		parts := strings.Split(rest, keySep)
		if len(parts) != 2 {
			continue
		}
		id := domain.RoomID(parts[0])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		name := s.v.GetString(roomKey(provider, id, "name"))
		if name == "" {
			// Blanked by RemoveRoom.
			continue
		}
		rooms = append(rooms, storedRoom{
			identity: domain.RoomIdentity{
				Provider: provider,
				ID:       id,
				Name:     domain.RoomName(name),
			},
			order: s.v.GetInt(roomKey(provider, id, "order")),
		})
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].order != rooms[j].order {
			return rooms[i].order < rooms[j].order
		}
		return rooms[i].identity.ID < rooms[j].identity.ID
	})
	out := make([]domain.RoomIdentity, len(rooms))
	for i, r := range rooms {
		out[i] = r.identity
	}
	return out
}

// SaveRoom persists a room identity. First-time saves get the next
// per-provider index so Rooms() keeps insertion order across restarts.
func (s *Store) SaveRoom(identity domain.RoomIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(roomKey(identity.Provider, identity.ID, "name"), string(identity.Name))
	if s.v.GetInt(roomKey(identity.Provider, identity.ID, "order")) == 0 {
		seq := s.v.GetInt(seqKey(identity.Provider)) + 1
		s.v.Set(seqKey(identity.Provider), seq)
		s.v.Set(roomKey(identity.Provider, identity.ID, "order"), seq)
	}
	s.flush()
}

// RemoveRoom drops every persisted field of a room.
func (s *Store) RemoveRoom(provider domain.ProviderID, room domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Viper cannot delete keys; blank them out instead. Rooms() skips
	// entries with an empty name on the next load.
	for _, field := range []string{"name", "order", "policy", "status", "nick"} {
		s.v.Set(roomKey(provider, room, field), "")
	}
	s.flush()
}

// OpenPolicy returns the persisted auto-open policy of a room,
// OpenOnMessage when unset.
func (s *Store) OpenPolicy(provider domain.ProviderID, room domain.RoomID) domain.OpenPolicy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ParseOpenPolicy(s.v.GetString(roomKey(provider, room, "policy")))
}

func (s *Store) SetOpenPolicy(provider domain.ProviderID, room domain.RoomID, p domain.OpenPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(roomKey(provider, room, "policy"), p.String())
	s.flush()
}

// Disposition returns the last-known open/closed state of a room. Unset
// counts as online so freshly persisted rooms auto-join on the next
// registration cycle.
func (s *Store) Disposition(provider domain.ProviderID, room domain.RoomID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.v.GetString(roomKey(provider, room, "status")); st == StatusOffline {
		return StatusOffline
	}
	return StatusOnline
}

func (s *Store) SetDisposition(provider domain.ProviderID, room domain.RoomID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(roomKey(provider, room, "status"), status)
	s.flush()
}

// Nickname returns the saved nickname for a room, empty when none was
// saved yet.
func (s *Store) Nickname(provider domain.ProviderID, room domain.RoomID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(roomKey(provider, room, "nick"))
}

func (s *Store) SetNickname(provider domain.ProviderID, room domain.RoomID, nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(roomKey(provider, room, "nick"), nick)
	s.flush()
}

// flush writes the store through to disk. Callers hold s.mu.
func (s *Store) flush() {
	if s.path == "" {
		return
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		log.Error().Err(err).Str("module", "config.store").Str("path", s.path).Msg("failed to persist room store")
	}
}
