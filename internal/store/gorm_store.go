package store

import (
	"context"
	"errors"

	"github.com/farellandr/ticketdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (t *gormTx) CreateEvent(event *models.Event) error {
	return t.db.Omit(clause.Associations).Create(event).Error
}

func (t *gormTx) GetEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := t.db.First(&event, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (t *gormTx) LockEvent(id uint) (*models.Event, error) {
	var event models.Event
	if err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (t *gormTx) SaveEvent(event *models.Event) error {
	return t.db.Omit(clause.Associations).Save(event).Error
}

func (t *gormTx) DeleteEvent(id uint) error {
	if err := t.db.Where("event_id = ?", id).Delete(&models.Ticket{}).Error; err != nil {
		return err
	}
	result := t.db.Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) ListEvents() ([]models.Event, error) {
	var events []models.Event
	if err := t.db.Order("id").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (t *gormTx) CreateTicket(ticket *models.Ticket) error {
	return t.db.Omit(clause.Associations).Create(ticket).Error
}

func (t *gormTx) GetTicket(id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := t.db.First(&ticket, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}

func (t *gormTx) LockTicket(id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}

func (t *gormTx) SaveTicket(ticket *models.Ticket) error {
	return t.db.Omit(clause.Associations).Save(ticket).Error
}

func (t *gormTx) CountRedeemed(eventID uint) (int64, error) {
	var count int64
	err := t.db.Model(&models.Ticket{}).
		Where("event_id = ? AND redeemed = ?", eventID, true).
		Count(&count).Error
	return count, err
}
