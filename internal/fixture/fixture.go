// Package fixture holds the JSON user and property collections in memory.
//
// A collection file maps a numeric-string id to a record:
//
//	{"1": {"name": "Devin Sanders", "email": "sebastianguerra@ymail.com", ...}}
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/lightbnb/lightbnb/internal/store"
	"github.com/lightbnb/lightbnb/types"
)

const (
	UsersFile      = "users.json"
	PropertiesFile = "properties.json"
)

// Store is a mutex-guarded in-memory set of fixture users and properties.
type Store struct {
	mu         sync.RWMutex
	users      map[int]types.User
	properties map[int]types.Property
}

func NewStore(users map[int]types.User, properties map[int]types.Property) *Store {
	if users == nil {
		users = map[int]types.User{}
	}
	if properties == nil {
		properties = map[int]types.Property{}
	}
	return &Store{users: users, properties: properties}
}

// userRecord is the on-disk user shape. It differs from types.User in
// that the password is serialized.
type userRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Load reads both collections from src.
func Load(ctx context.Context, src Source) (*Store, error) {
	records, err := loadCollection[userRecord](ctx, src, UsersFile)
	if err != nil {
		return nil, err
	}
	users := make(map[int]types.User, len(records))
	for id, record := range records {
		users[id] = types.User{ID: id, Name: record.Name, Email: record.Email, Password: record.Password}
	}

	properties, err := loadCollection[types.Property](ctx, src, PropertiesFile)
	if err != nil {
		return nil, err
	}
	for id, property := range properties {
		property.ID = id
		properties[id] = property
	}

	return NewStore(users, properties), nil
}

// Users returns a snapshot ordered by id.
func (s *Store) Users() []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]types.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// Properties returns a snapshot ordered by id.
func (s *Store) Properties() []types.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()

	properties := make([]types.Property, 0, len(s.properties))
	for _, property := range s.properties {
		properties = append(properties, property)
	}
	sort.Slice(properties, func(i, j int) bool { return properties[i].ID < properties[j].ID })
	return properties
}

// GetByID returns the fixture user with id, or store.ErrNotFound.
func (s *Store) GetByID(_ context.Context, id int) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

// Create stores property under the next id, count+1. When that id is
// already taken by a sparse collection the next free id is used.
func (s *Store) Create(_ context.Context, property types.Property) (types.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := len(s.properties) + 1
	for {
		if _, taken := s.properties[id]; !taken {
			break
		}
		id++
	}
	property.ID = id
	s.properties[id] = property
	return property, nil
}

func loadCollection[T any](ctx context.Context, src Source, name string) (map[int]T, error) {
	r, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open fixture %s: %w", name, err)
	}
	defer r.Close()

	records, err := decodeCollection[T](r)
	if err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return records, nil
}

func decodeCollection[T any](r io.Reader) (map[int]T, error) {
	var raw map[string]T
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	records := make(map[int]T, len(raw))
	for key, record := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid record id %q", key)
		}
		records[id] = record
	}
	return records, nil
}
