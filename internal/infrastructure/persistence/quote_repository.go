package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/cabinetquote/backend/internal/domain/shared"
	"github.com/cabinetquote/backend/internal/infrastructure/persistence/models"
)

// GormQuoteRepository implements quote.QuoteRepository using GORM.
// A quote is written as one row in quotes plus its space and item rows;
// Save replaces the child rows inside a transaction.
type GormQuoteRepository struct {
	db  *gorm.DB
	ids quote.IDGenerator
}

var _ quote.QuoteRepository = (*GormQuoteRepository)(nil)

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB, ids quote.IDGenerator) *GormQuoteRepository {
	return &GormQuoteRepository{db: db, ids: ids}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id string) (*quote.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	quotes := []models.QuoteModel{model}
	if err := r.loadChildren(ctx, r.db, quotes); err != nil {
		return nil, err
	}
	return quotes[0].ToDomain(), nil
}

// FindAll finds all quotes matching the filter
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	var rows []models.QuoteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}), filter)
	query = r.applyPagination(query, filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, r.db, rows); err != nil {
		return nil, err
	}

	quotes := make([]quote.Quote, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, nil
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create stores a new quote and assigns its ID
func (r *GormQuoteRepository) Create(ctx context.Context, q *quote.Quote) error {
	if q.ID == "" {
		q.ID = r.ids.NewID()
	}
	model := models.QuoteModelFromDomain(q)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return r.insertChildren(tx, model)
	})
	if err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

// Save replaces the stored quote with the given snapshot
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	if q.ID == "" {
		return shared.ErrNotFound
	}
	model := models.QuoteModelFromDomain(q)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.QuoteModel{}).Where("id = ?", q.ID).Updates(model.ClientColumns())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := r.deleteChildren(tx, q.ID); err != nil {
			return err
		}
		return r.insertChildren(tx, model)
	})
}

// Delete removes a quote with all its spaces and items
func (r *GormQuoteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteChildren(tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.QuoteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormQuoteRepository) insertChildren(tx *gorm.DB, model *models.QuoteModel) error {
	if len(model.Spaces) == 0 {
		return nil
	}
	var items []models.ItemModel
	for _, s := range model.Spaces {
		items = append(items, s.Items...)
	}
	if err := tx.Create(&model.Spaces).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *GormQuoteRepository) deleteChildren(tx *gorm.DB, quoteID string) error {
	if err := tx.Where("quote_id = ?", quoteID).Delete(&models.ItemModel{}).Error; err != nil {
		return err
	}
	return tx.Where("quote_id = ?", quoteID).Delete(&models.SpaceModel{}).Error
}

// loadChildren attaches ordered spaces and items to each quote row
func (r *GormQuoteRepository) loadChildren(ctx context.Context, db *gorm.DB, quotes []models.QuoteModel) error {
	if len(quotes) == 0 {
		return nil
	}
	ids := make([]string, len(quotes))
	for i := range quotes {
		ids[i] = quotes[i].ID
	}

	var spaces []models.SpaceModel
	if err := db.WithContext(ctx).Where("quote_id IN ?", ids).Order("position ASC").Find(&spaces).Error; err != nil {
		return err
	}
	var items []models.ItemModel
	if err := db.WithContext(ctx).Where("quote_id IN ?", ids).Order("position ASC").Find(&items).Error; err != nil {
		return err
	}

	type spaceKey struct{ quoteID, spaceID string }
	itemsBySpace := make(map[spaceKey][]models.ItemModel)
	for _, item := range items {
		key := spaceKey{item.QuoteID, item.SpaceID}
		itemsBySpace[key] = append(itemsBySpace[key], item)
	}
	spacesByQuote := make(map[string][]models.SpaceModel)
	for _, s := range spaces {
		s.Items = itemsBySpace[spaceKey{s.QuoteID, s.ID}]
		spacesByQuote[s.QuoteID] = append(spacesByQuote[s.QuoteID], s)
	}
	for i := range quotes {
		quotes[i].Spaces = spacesByQuote[quotes[i].ID]
	}
	return nil
}

// applyFilter applies search to the query
func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(client_name) LIKE ? OR LOWER(project_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

// applyPagination applies ordering and paging to the query
func (r *GormQuoteRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Order(quoteOrder(filter))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
