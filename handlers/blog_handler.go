package handlers

import (
	"errors"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListBlogs(c *fiber.Ctx) error {
	var blogs []models.Blog
	if err := database.DB.
		Preload("Author").
		Where("published = ?", true).
		Order("created_at desc").
		Find(&blogs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(blogs)
}

func GetBlogBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var blog models.Blog
	if err := database.DB.Preload("Author").
		Where("slug = ? AND published = ?", slug, true).
		First(&blog).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Blog post not found"})
	}
	return c.JSON(blog)
}

type BlogRequest struct {
	Title         string  `json:"title" validate:"required,min=3"`
	Body          string  `json:"body" validate:"required"`
	CoverImageURL *string `json:"cover_image_url"`
	Published     bool    `json:"published"`
}

func AdminCreateBlog(c *fiber.Ctx) error {
	var req BlogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	blog := models.Blog{
		Title:         req.Title,
		Slug:          utils.Slugify(req.Title),
		Body:          req.Body,
		CoverImageURL: req.CoverImageURL,
		Published:     req.Published,
		AuthorID:      currentUserID(c),
	}
	if err := database.DB.Create(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A post with this title already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create blog post"})
	}

	return c.Status(fiber.StatusCreated).JSON(blog)
}

func AdminUpdateBlog(c *fiber.Ctx) error {
	blogID := c.Params("blogId")

	var blog models.Blog
	if err := database.DB.First(&blog, "id = ?", blogID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Blog post not found"})
	}

	var req BlogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	blog.Title = req.Title
	blog.Slug = utils.Slugify(req.Title)
	blog.Body = req.Body
	blog.CoverImageURL = req.CoverImageURL
	blog.Published = req.Published

	if err := database.DB.Save(&blog).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update blog post"})
	}
	return c.JSON(blog)
}

func AdminDeleteBlog(c *fiber.Ctx) error {
	blogID := c.Params("blogId")

	result := database.DB.Delete(&models.Blog{}, "id = ?", blogID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete blog post"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Blog post not found"})
	}
	return c.JSON(fiber.Map{"message": "Blog post deleted"})
}
