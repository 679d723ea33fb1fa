package controllers

import (
	"errors"
	"strings"

	"barangay-backend/database"
	"barangay-backend/middlewares"
	"barangay-backend/models"
	"barangay-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Catalog CRUD: the things residents file requests against. Reads are open to
// every authenticated user; mutations are admin-only (gated in routes).

type ItemCreateDTO struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description" validate:"omitempty"`
	Available   *bool  `json:"available" validate:"omitempty"`
}

type ItemUpdateDTO struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty"`
	Available   *bool   `json:"available" validate:"omitempty"`
}

// POST /api/items
func CreateItem(c *fiber.Ctx) error {
	var in ItemCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	barangayID, _ := c.Locals("barangayID").(uint)
	item := models.Item{
		BarangayID:  barangayID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Available:   true,
	}
	if in.Available != nil {
		item.Available = *in.Available
	}

	if err := database.DB.Create(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GET /api/items
func GetItems(c *fiber.Ctx) error {
	var items []models.Item
	if err := database.DB.Order("title ASC").Find(&items).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(fiber.Map{"items": items})
}

// PUT /api/items/:id
func UpdateItem(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing item id in path")
	}

	var in ItemUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	var existing models.Item
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := database.DB.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update item")
		}
	}

	var out models.Item
	if err := database.DB.First(&out, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload item")
	}
	return c.JSON(out)
}

type BenefitCreateDTO struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description" validate:"omitempty"`
}

// POST /api/benefits
func CreateBenefit(c *fiber.Ctx) error {
	var in BenefitCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	barangayID, _ := c.Locals("barangayID").(uint)
	benefit := models.Benefit{
		BarangayID:  barangayID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Active:      true,
	}
	if err := database.DB.Create(&benefit).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create benefit")
	}
	return c.Status(fiber.StatusCreated).JSON(benefit)
}

// GET /api/benefits
func GetBenefits(c *fiber.Ctx) error {
	var benefits []models.Benefit
	if err := database.DB.Where("active = ?", true).Order("title ASC").Find(&benefits).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(fiber.Map{"benefits": benefits})
}

type DocumentTypeCreateDTO struct {
	Name        string   `json:"name" validate:"required,min=1"`
	Description string   `json:"description" validate:"omitempty"`
	Fee         *float64 `json:"fee" validate:"omitempty,gte=0"`
}

// POST /api/document-types
func CreateDocumentType(c *fiber.Ctx) error {
	var in DocumentTypeCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	docType := models.DocumentType{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Active:      true,
	}
	if in.Fee != nil {
		docType.Fee = *in.Fee
	}
	if err := database.DB.Create(&docType).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create document type")
	}
	return c.Status(fiber.StatusCreated).JSON(docType)
}

// GET /api/document-types
func GetDocumentTypes(c *fiber.Ctx) error {
	var types []models.DocumentType
	if err := database.DB.Where("active = ?", true).Order("name ASC").Find(&types).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(fiber.Map{"document_types": types})
}

// GET /api/barangays (public: needed by the registration form)
func GetBarangays(c *fiber.Ctx) error {
	var barangays []models.Barangay
	if err := database.DB.Order("name ASC").Find(&barangays).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(fiber.Map{"barangays": barangays})
}
