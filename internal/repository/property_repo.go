package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/market_api/internal/models"
)

const (
	propertyTypeSelect = `SELECT t.*, p.user_id AS owner_id FROM property_types t JOIN products p ON p.id = t.product_id`
	propertySelect     = `SELECT pr.*, p.user_id AS owner_id FROM properties pr
		JOIN property_types t ON t.id = pr.property_type_id
		JOIN products p ON p.id = t.product_id`
)

// PropertyRepository handles data access for property types and their properties.
type PropertyRepository struct {
	db *sqlx.DB
}

// NewPropertyRepository creates a new PropertyRepository.
func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// ListTypes returns a page of property types, optionally for one product.
func (r *PropertyRepository) ListTypes(ctx context.Context, productID *int64, params ListParams) ([]models.PropertyType, int, error) {
	params.Normalize()
	var c conditions
	if productID != nil {
		c.add("t.product_id = $%d", *productID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM property_types t`+c.where(), c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	types := []models.PropertyType{}
	if err := r.db.SelectContext(ctx, &types, propertyTypeSelect+c.where()+` ORDER BY t.id`+limit, args...); err != nil {
		return nil, 0, err
	}
	return types, total, nil
}

// ListTypesByProducts returns the property types of every product in ids.
func (r *PropertyRepository) ListTypesByProducts(ctx context.Context, ids []int64) ([]models.PropertyType, error) {
	types := []models.PropertyType{}
	if len(ids) == 0 {
		return types, nil
	}
	err := r.db.SelectContext(ctx, &types, propertyTypeSelect+` WHERE t.product_id = ANY($1) ORDER BY t.id`, pq.Array(ids))
	return types, err
}

// GetType returns a property type with its owner or sql.ErrNoRows.
func (r *PropertyRepository) GetType(ctx context.Context, id int64) (*models.PropertyType, error) {
	var t models.PropertyType
	if err := r.db.GetContext(ctx, &t, propertyTypeSelect+` WHERE t.id = $1`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateType inserts a property type.
func (r *PropertyRepository) CreateType(ctx context.Context, t *models.PropertyType) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO property_types (product_id, title) VALUES ($1, $2) RETURNING id`,
		t.ProductID, t.Title,
	).Scan(&t.ID)
}

// UpdateType renames a property type.
func (r *PropertyRepository) UpdateType(ctx context.Context, t *models.PropertyType) error {
	_, err := r.db.ExecContext(ctx, `UPDATE property_types SET title = $2 WHERE id = $1`, t.ID, t.Title)
	return err
}

// DeleteType removes a property type and its properties.
func (r *PropertyRepository) DeleteType(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM property_types WHERE id = $1`, id)
	return err
}

// ListProperties returns a page of properties, optionally for one product.
func (r *PropertyRepository) ListProperties(ctx context.Context, productID *int64, params ListParams) ([]models.Property, int, error) {
	params.Normalize()
	var c conditions
	if productID != nil {
		c.add("t.product_id = $%d", *productID)
	}

	var total int
	countQuery := `SELECT COUNT(1) FROM properties pr JOIN property_types t ON t.id = pr.property_type_id` + c.where()
	if err := r.db.GetContext(ctx, &total, countQuery, c.args...); err != nil {
		return nil, 0, err
	}

	limit, args := c.page(params)
	props := []models.Property{}
	if err := r.db.SelectContext(ctx, &props, propertySelect+c.where()+` ORDER BY pr.id`+limit, args...); err != nil {
		return nil, 0, err
	}
	return props, total, nil
}

// ListPropertiesByTypes returns the properties of every property type in ids.
func (r *PropertyRepository) ListPropertiesByTypes(ctx context.Context, ids []int64) ([]models.Property, error) {
	props := []models.Property{}
	if len(ids) == 0 {
		return props, nil
	}
	err := r.db.SelectContext(ctx, &props, propertySelect+` WHERE pr.property_type_id = ANY($1) ORDER BY pr.id`, pq.Array(ids))
	return props, err
}

// GetProperty returns a property with its owner or sql.ErrNoRows.
func (r *PropertyRepository) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	var pr models.Property
	if err := r.db.GetContext(ctx, &pr, propertySelect+` WHERE pr.id = $1`, id); err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreateProperty inserts a property.
func (r *PropertyRepository) CreateProperty(ctx context.Context, pr *models.Property) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO properties (property_type_id, title, value) VALUES ($1, $2, $3) RETURNING id`,
		pr.PropertyTypeID, pr.Title, pr.Value,
	).Scan(&pr.ID)
}

// UpdateProperty writes title and value of pr.
func (r *PropertyRepository) UpdateProperty(ctx context.Context, pr *models.Property) error {
	_, err := r.db.ExecContext(ctx, `UPDATE properties SET title = $2, value = $3 WHERE id = $1`, pr.ID, pr.Title, pr.Value)
	return err
}

// DeleteProperty removes a property.
func (r *PropertyRepository) DeleteProperty(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}
