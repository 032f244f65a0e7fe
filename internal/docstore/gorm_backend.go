package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentModel struct {
	Coll      string    `gorm:"column:coll;primaryKey;size:64"`
	ID        string    `gorm:"column:id;primaryKey;size:128"`
	Body      string    `gorm:"column:body;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (documentModel) TableName() string { return "documents" }

// GormBackend keeps every collection in a single "documents" table keyed by
// (coll, id). It works on SQLite for the embedded store and on PostgreSQL.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&documentModel{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", err)
	}
	return &GormBackend{db: db}, nil
}

func (b *GormBackend) Put(ctx context.Context, coll Collection, id string, body []byte) error {
	now := time.Now().UTC()
	m := documentModel{
		Coll:      string(coll),
		ID:        id,
		Body:      string(body),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "coll"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&m).Error
}

func (b *GormBackend) Get(ctx context.Context, coll Collection, id string) ([]byte, error) {
	var m documentModel
	err := b.db.WithContext(ctx).
		Where("coll = ? AND id = ?", string(coll), id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(m.Body), nil
}

func (b *GormBackend) List(ctx context.Context, coll Collection) ([]Record, error) {
	var rows []documentModel
	if err := b.db.WithContext(ctx).
		Where("coll = ?", string(coll)).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{ID: r.ID, Body: []byte(r.Body)})
	}
	return out, nil
}

func (b *GormBackend) Delete(ctx context.Context, coll Collection, id string) (bool, error) {
	res := b.db.WithContext(ctx).
		Where("coll = ? AND id = ?", string(coll), id).
		Delete(&documentModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (b *GormBackend) Clear(ctx context.Context, coll Collection) error {
	return b.db.WithContext(ctx).
		Where("coll = ?", string(coll)).
		Delete(&documentModel{}).Error
}

// Replace clears and refills every collection in sets inside one transaction.
func (b *GormBackend) Replace(ctx context.Context, sets map[Collection][]Record) error {
	now := time.Now().UTC()
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for coll, records := range sets {
			if err := tx.Where("coll = ?", string(coll)).Delete(&documentModel{}).Error; err != nil {
				return fmt.Errorf("clear %s: %w", coll, err)
			}
			if len(records) == 0 {
				continue
			}
			rows := make([]documentModel, 0, len(records))
			for _, r := range records {
				rows = append(rows, documentModel{
					Coll:      string(coll),
					ID:        r.ID,
					Body:      string(r.Body),
					CreatedAt: now,
					UpdatedAt: now,
				})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("insert %s: %w", coll, err)
			}
		}
		return nil
	})
}
