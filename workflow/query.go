package workflow

import (
	"errors"
	"strings"

	"barangay-backend/models"

	"gorm.io/gorm"
)

// Filters narrows a request listing. Zero values mean "no filter".
type Filters struct {
	Status  models.Status
	Kind    models.Kind
	Search  string
	Page    int
	PerPage int
}

// Page is one role-scoped listing plus the dashboard aggregates.
type Page struct {
	Requests []models.Request        `json:"requests"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PerPage  int                     `json:"per_page"`
	Counts   map[models.Status]int64 `json:"counts"`
}

// scopeFor restricts visibility: residents see their own requests only;
// admins see everything except relocations not touching their barangay.
func scopeFor(actor Actor) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if actor.Admin() {
			return q.Where(
				"kind <> ? OR from_barangay_id = ? OR to_barangay_id = ?",
				models.KindRelocation, actor.BarangayID, actor.BarangayID,
			)
		}
		return q.Where("requester_id = ?", actor.ID)
	}
}

// List returns the actor-scoped, filtered, paginated view. Counts partition
// the scope by status and deliberately ignore the status/kind/search filters,
// so dashboard widgets stay stable while the rows are filtered.
func List(db *gorm.DB, actor Actor, f Filters) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}

	q := db.Model(&models.Request{}).Scopes(scopeFor(actor))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(summary) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Request
	err := q.Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts, err := countsByStatus(db, actor)
	if err != nil {
		return nil, err
	}

	return &Page{Requests: rows, Total: total, Page: f.Page, PerPage: f.PerPage, Counts: counts}, nil
}

func countsByStatus(db *gorm.DB, actor Actor) (map[models.Status]int64, error) {
	type bucket struct {
		Status models.Status
		N      int64
	}
	var buckets []bucket
	err := db.Model(&models.Request{}).
		Scopes(scopeFor(actor)).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Status]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Status] = b.N
	}
	return counts, nil
}

// Get returns one request if the actor may read it, under the same visibility
// rules as List.
func Get(db *gorm.DB, actor Actor, id string) (*models.Request, error) {
	var req models.Request
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actor.Admin() {
		if req.Kind == models.KindRelocation &&
			actor.BarangayID != req.FromBarangayID && actor.BarangayID != req.ToBarangayID {
			return nil, ErrForbidden
		}
		return &req, nil
	}
	if req.RequesterID != actor.ID {
		return nil, ErrForbidden
	}
	return &req, nil
}
