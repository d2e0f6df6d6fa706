package equipment

import (
	"errors"
	"net/http"
	"strconv"

	"agritrack/internal/repository"
	"agritrack/pkg/auditlog"
	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/roles"
	"agritrack/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EquipmentHandler struct {
	EquipmentRepository *EquipmentRepository
	AuditLog            *auditlog.Auditlog
	log                 *zap.Logger
}

func NewEquipmentHandler(er *EquipmentRepository, a *auditlog.Auditlog, log *zap.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		EquipmentRepository: er,
		AuditLog:            a,
		log:                 log,
	}
}

func (h *EquipmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/equipment", security.Authorize(roles.User), h.GetEquipmentList)
	router.GET("/equipment/:id", security.Authorize(roles.User), h.GetEquipment)
	router.POST("/equipment", security.Authorize(roles.Moderator), h.CreateEquipment)
}

func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	equipmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || equipmentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Equipment ID is required"})
		return
	}

	item, err := h.EquipmentRepository.GetEquipmentItem(equipmentID)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		h.log.Error("failed to get equipment item", zap.Int("equipment_id", equipmentID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get equipment", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *EquipmentHandler) GetEquipmentList(c *gin.Context) {
	var query EquipmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	conditions := repository.NewQueryBuilder()
	if query.FarmID != nil {
		conditions.AddCondition("farm_id", *query.FarmID)
	}
	if query.CategoryID != nil {
		conditions.AddCondition("category_id", *query.CategoryID)
	}
	if query.Status != nil {
		conditions.AddCondition("status", *query.Status)
	}

	items, err := h.EquipmentRepository.GetEquipmentItemsBy(conditions)
	if err != nil {
		h.log.Error("failed to list equipment items", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get equipment list", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var req EquipmentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.EquipmentRepository.PersistEquipmentItem(req)
	if err != nil {
		switch err.(type) {
		case *custom_error.ForeignKeyViolationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown farm or category", "details": err.Error()})
		default:
			h.log.Error("failed to create equipment item", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create equipment", "details": err.Error()})
		}
		return
	}

	h.AuditLog.Log("create", map[string]interface{}{"name": item.Name, "farm_id": item.Farm.ID}, item)

	c.JSON(http.StatusCreated, item)
}
