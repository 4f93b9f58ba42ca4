package handlers

import (
	"net/http"
	"time"

	"gate-pass-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type CategoryHandler struct {
	DB *mongo.Database
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	cursor, err := h.DB.Collection("categories").Find(c.Request.Context(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query categories"})
		return
	}
	defer cursor.Close(c.Request.Context())

	var categories []models.Category
	if err = cursor.All(c.Request.Context(), &categories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode categories"})
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

type CreateCategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	Returnable bool   `json:"returnable"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("categories")
	count, err := collection.CountDocuments(c.Request.Context(), bson.M{"name": req.Name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing categories"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}

	category := models.Category{Name: req.Name, Returnable: req.Returnable, CreatedAt: time.Now()}
	if _, err := collection.InsertOne(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	name := c.Param("name")
	result, err := h.DB.Collection("categories").DeleteOne(c.Request.Context(), bson.M{"name": name})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
