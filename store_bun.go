package authclient

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// ClientSlotModel is the Bun model for durable client slots. One row per slot
// name, mirroring the key/value layout of the browser storage the web client
// uses.
type ClientSlotModel struct {
	bun.BaseModel `bun:"table:client_slots"`

	Name      string    `bun:"name,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,default:current_timestamp"`
}

// BunTokenStore persists the token slot and auth marker in SQLite through
// Bun. Meant for kiosk and desktop deployments where a plain file is too
// fragile. The TokenStore contract is synchronous, so calls run against a
// background context internally.
type BunTokenStore struct {
	db     *bun.DB
	logger Logger
}

func NewBunTokenStore(db *bun.DB) *BunTokenStore {
	return &BunTokenStore{
		db:     db,
		logger: defLogger{},
	}
}

func (s *BunTokenStore) WithLogger(logger Logger) *BunTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Init creates the backing table if needed.
func (s *BunTokenStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*ClientSlotModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *BunTokenStore) ReadToken() (string, bool) {
	value, ok := s.readSlot(tokenSlotName)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (s *BunTokenStore) WriteToken(token string) error {
	return s.writeSlot(tokenSlotName, token)
}

func (s *BunTokenStore) ReadAuthMarker() bool {
	value, ok := s.readSlot(authSlotName)
	return ok && value == authMarkerName
}

func (s *BunTokenStore) WriteAuthMarker() error {
	return s.writeSlot(authSlotName, authMarkerName)
}

func (s *BunTokenStore) Clear() error {
	_, err := s.db.NewDelete().
		Model((*ClientSlotModel)(nil)).
		Where("name IN (?)", bun.In([]string{tokenSlotName, authSlotName})).
		Exec(context.Background())
	return err
}

func (s *BunTokenStore) readSlot(name string) (string, bool) {
	var model ClientSlotModel
	err := s.db.NewSelect().
		Model(&model).
		Where("name = ?", name).
		Scan(context.Background())
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("slot %s read failed, treating as absent: %v", name, err)
		}
		return "", false
	}
	return model.Value, true
}

func (s *BunTokenStore) writeSlot(name, value string) error {
	model := &ClientSlotModel{
		Name:      name,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(context.Background())

	return err
}
