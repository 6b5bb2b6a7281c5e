package database

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// NewMemoryStores returns stores that keep everything in process memory.
// Records are copied on the way in and out so callers never share slices
// with the store.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:    &MemoryUserStore{users: map[bson.ObjectID]*models.User{}},
		Calls:    &MemoryCallStore{calls: map[bson.ObjectID]*models.Call{}},
		Sessions: &MemorySessionStore{sessions: map[bson.ObjectID]*models.Session{}},
		Ads:      &MemoryAdStore{},
	}
}

type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[bson.ObjectID]*models.User
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if user.Calls == nil {
		user.Calls = []models.Call{}
	}
	if user.Favourites == nil {
		user.Favourites = []models.Call{}
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) PushCall(_ context.Context, userID bson.ObjectID, call models.Call) error {
	_, err := s.mutate(userID, func(u *models.User) {
		u.Calls = append(u.Calls, cloneCall(call))
	})
	return err
}

func (s *MemoryUserStore) PullCall(_ context.Context, userID, callID bson.ObjectID) error {
	_, err := s.mutate(userID, func(u *models.User) {
		u.Calls = models.RemoveCall(u.Calls, callID)
	})
	return err
}

func (s *MemoryUserStore) PushFavourite(_ context.Context, userID bson.ObjectID, call models.Call) (*models.User, error) {
	return s.mutate(userID, func(u *models.User) {
		u.Favourites = append(u.Favourites, cloneCall(call))
	})
}

func (s *MemoryUserStore) PullFavourite(_ context.Context, userID, callID bson.ObjectID) (*models.User, error) {
	return s.mutate(userID, func(u *models.User) {
		u.Favourites = models.RemoveCall(u.Favourites, callID)
	})
}

func (s *MemoryUserStore) SetAvatar(_ context.Context, userID bson.ObjectID, url string) error {
	_, err := s.mutate(userID, func(u *models.User) {
		u.AvatarURL = url
	})
	return err
}

func (s *MemoryUserStore) mutate(userID bson.ObjectID, fn func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	fn(u)
	return cloneUser(u), nil
}

type MemoryCallStore struct {
	mu    sync.RWMutex
	calls map[bson.ObjectID]*models.Call
	order []bson.ObjectID
}

func (s *MemoryCallStore) Create(_ context.Context, call *models.Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if call.ID.IsZero() {
		call.ID = bson.NewObjectID()
	}
	if call.ImageURLs == nil {
		call.ImageURLs = []string{}
	}
	c := cloneCall(*call)
	s.calls[call.ID] = &c
	s.order = append(s.order, call.ID)
	return nil
}

func (s *MemoryCallStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Call, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.calls[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneCall(*c)
	return &out, nil
}

func (s *MemoryCallStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.calls[id]; !ok {
		return ErrNotFound
	}
	delete(s.calls, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryCallStore) FindByCategories(_ context.Context, categories ...models.Category) ([]models.Call, error) {
	wanted := make(map[models.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	return s.filter(func(c *models.Call) bool { return wanted[c.Category] }), nil
}

func (s *MemoryCallStore) SearchByTitle(_ context.Context, text string) ([]models.Call, error) {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(text))
	if err != nil {
		return nil, err
	}
	return s.filter(func(c *models.Call) bool { return re.MatchString(c.Title) }), nil
}

func (s *MemoryCallStore) filter(keep func(*models.Call) bool) []models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Call, 0)
	for _, id := range s.order {
		if c := s.calls[id]; keep(c) {
			out = append(out, cloneCall(*c))
		}
	}
	return out
}

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[bson.ObjectID]*models.Session
}

func (s *MemorySessionStore) Create(_ context.Context, userID bson.ObjectID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &models.Session{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	stored := *session
	s.sessions[session.ID] = &stored
	return session, nil
}

func (s *MemorySessionStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *session
	return &out, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

type MemoryAdStore struct {
	mu  sync.RWMutex
	ads []models.Ad
}

func (s *MemoryAdStore) List(_ context.Context) ([]models.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ad, len(s.ads))
	copy(out, s.ads)
	return out, nil
}

func (s *MemoryAdStore) Upsert(_ context.Context, ad models.Ad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ads {
		if s.ads[i].ImageURL == ad.ImageURL {
			s.ads[i].Title = ad.Title
			s.ads[i].Link = ad.Link
			return nil
		}
	}
	if ad.ID.IsZero() {
		ad.ID = bson.NewObjectID()
	}
	s.ads = append(s.ads, ad)
	return nil
}

func cloneCall(c models.Call) models.Call {
	c.ImageURLs = append([]string(nil), c.ImageURLs...)
	if c.ImageURLs == nil {
		c.ImageURLs = []string{}
	}
	return c
}

func cloneCalls(calls []models.Call) []models.Call {
	out := make([]models.Call, 0, len(calls))
	for _, c := range calls {
		out = append(out, cloneCall(c))
	}
	return out
}

func cloneUser(u *models.User) *models.User {
	out := *u
	out.Calls = cloneCalls(u.Calls)
	out.Favourites = cloneCalls(u.Favourites)
	return &out
}
