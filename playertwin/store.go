package playertwin

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound   = errors.New("player not found")
	ErrLoginTaken = errors.New("login is already taken")
)

// Player is a stored player.
type Player struct {
	ID         int64
	Login      string
	Password   string
	ScreenName string
	Gender     string
	Age        int
	Role       string
}

// Store holds all players in memory. All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	players map[int64]Player
	lastID  int64
}

// Seed players; their logins are the editors available to tests.
var seedPlayers = []Player{
	{Login: "supervisor", Password: "Supervisor1", ScreenName: "Supervisor", Gender: "male", Age: 40, Role: "supervisor"},
	{Login: "admin", Password: "Admin123", ScreenName: "Admin", Gender: "female", Age: 35, Role: "admin"},
	{Login: "user", Password: "User1234", ScreenName: "User", Gender: "male", Age: 25, Role: "user"},
}

func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset restores the seed state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[int64]Player)
	s.lastID = 0
	for _, p := range seedPlayers {
		s.lastID++
		p.ID = s.lastID
		s.players[p.ID] = p
	}
}

func (s *Store) Get(id int64) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	return p, ok
}

func (s *Store) FindByLogin(login string) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByLogin(login)
}

func (s *Store) findByLogin(login string) (Player, bool) {
	for _, p := range s.players {
		if p.Login == login {
			return p, true
		}
	}
	return Player{}, false
}

// Create assigns an ID and stores the player.
func (s *Store) Create(p Player) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.findByLogin(p.Login); taken {
		return Player{}, ErrLoginTaken
	}
	s.lastID++
	p.ID = s.lastID
	s.players[p.ID] = p
	return p, nil
}

// Update applies fn to a copy of the stored player and stores the result. If fn returns an
// error nothing is stored and that error is returned. Login uniqueness is checked after fn runs.
func (s *Store) Update(id int64, fn func(*Player) error) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, ErrNotFound
	}
	if err := fn(&p); err != nil {
		return Player{}, err
	}
	if other, taken := s.findByLogin(p.Login); taken && other.ID != id {
		return Player{}, ErrLoginTaken
	}
	s.players[id] = p
	return p, nil
}

func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	return true
}

// All returns every player ordered by ID.
func (s *Store) All() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		ret = append(ret, p)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}
