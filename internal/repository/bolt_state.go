package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"project_armada/internal/entities"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// BoltStateStore keeps sessions in a local bbolt file
type BoltStateStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

func NewBoltStateStore(path string, ttl time.Duration) (*BoltStateStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}

	return &BoltStateStore{db: db, ttl: ttl, now: time.Now}, nil
}

func boltKey(chatID int64) []byte {
	return []byte(strconv.FormatInt(chatID, 10))
}

func (s *BoltStateStore) Get(_ context.Context, chatID int64) (entities.Session, error) {
	session := entities.Session{ChatID: chatID}
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get(boltKey(chatID))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &session)
	})
	if err != nil {
		return entities.Session{}, entities.NewError(entities.KindStateStore, "bolt get session", err)
	}
	if s.ttl > 0 && session.AwaitingValue() && s.now().Sub(session.UpdatedAt) > s.ttl {
		return entities.Session{ChatID: chatID}, nil
	}
	return session, nil
}

func (s *BoltStateStore) Set(_ context.Context, chatID int64, category string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(entities.Session{ChatID: chatID, Category: category, UpdatedAt: s.now().UTC()})
		if err != nil {
			return err
		}
		return tx.Bucket(sessionsBucket).Put(boltKey(chatID), data)
	})
	if err != nil {
		return entities.NewError(entities.KindStateStore, "bolt set session", err)
	}
	return nil
}

func (s *BoltStateStore) Clear(_ context.Context, chatID int64) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete(boltKey(chatID))
	})
	if err != nil {
		return entities.NewError(entities.KindStateStore, "bolt clear session", err)
	}
	return nil
}

func (s *BoltStateStore) Close() error {
	return s.db.Close()
}
