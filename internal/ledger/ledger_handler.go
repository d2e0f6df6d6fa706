package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"agritrack/internal/repository"
	"agritrack/pkg/auditlog"
	custom_error "agritrack/pkg/errors"
	"agritrack/pkg/metadata"
	"agritrack/pkg/models"
	"agritrack/pkg/roles"
	"agritrack/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auditor records ledger actions for the audit trail.
type Auditor interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

// AuditTrail reads back recorded audit entries for a resource.
type AuditTrail interface {
	GetLogsByResource(resourceType string, resourceID int) ([]models.AuditLog, error)
}

type LedgerHandler struct {
	Service  *LedgerService
	Requests ChangeRequestStore
	AuditLog Auditor
	Trail    AuditTrail
	log      *zap.Logger
}

func NewLedgerHandler(service *LedgerService, requests ChangeRequestStore, a Auditor, trail AuditTrail, log *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		Service:  service,
		Requests: requests,
		AuditLog: a,
		Trail:    trail,
		log:      log,
	}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/change-requests", security.Authorize(roles.User), h.CreateChangeRequest)
	router.POST("/change-requests/:id/review", security.Authorize(roles.Moderator), h.ReviewChangeRequest)
	router.GET("/change-requests", security.Authorize(roles.User), h.GetChangeRequests)
	router.GET("/change-requests/:id", security.Authorize(roles.User), h.GetChangeRequest)
	router.GET("/change-requests/:id/logs", security.Authorize(roles.User), h.GetChangeRequestLogs)
}

func (h *LedgerHandler) CreateChangeRequest(c *gin.Context) {
	var input ChangeRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	request, err := h.Service.CreateChangeRequest(input)
	if err != nil {
		h.respondWithLedgerError(c, err)
		return
	}

	h.AuditLog.Log("create", map[string]interface{}{
		"equipment_id": request.EquipmentID,
		"type":         request.Type.String(),
		"quantity":     request.Quantity,
		"created_by":   request.CreatedBy,
	}, request)

	c.JSON(http.StatusCreated, request)
}

func (h *LedgerHandler) ReviewChangeRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Change request ID is required"})
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	request, err := h.Service.Review(requestID, input.ReviewerID, input.Decision, input.RejectReason)
	if err != nil {
		h.respondWithLedgerError(c, err)
		return
	}

	h.AuditLog.Log(input.Decision, map[string]interface{}{
		"reviewer_id": input.ReviewerID,
		"status":      request.Status.String(),
	}, request)

	c.JSON(http.StatusOK, request)
}

func (h *LedgerHandler) GetChangeRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Change request ID is required"})
		return
	}

	request, err := h.Requests.GetChangeRequest(requestID)
	if err != nil {
		h.respondWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *LedgerHandler) GetChangeRequestLogs(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Change request ID is required"})
		return
	}

	if _, err := h.Requests.GetChangeRequest(requestID); err != nil {
		h.respondWithLedgerError(c, err)
		return
	}

	logs, err := h.Trail.GetLogsByResource("change_request", requestID)
	if err != nil {
		h.log.Error("failed to read audit trail", zap.Int("request_id", requestID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get change request history", "details": err.Error()})
		return
	}

	if len(logs) == 0 {
		c.JSON(http.StatusOK, []models.AuditLog{})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *LedgerHandler) GetChangeRequests(c *gin.Context) {
	var query ChangeRequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	conditions := repository.NewQueryBuilder()
	if query.FarmID != nil {
		conditions.AddCondition("farm_id", *query.FarmID)
	}
	if query.EquipmentID != nil {
		conditions.AddCondition("equipment_id", *query.EquipmentID)
	}
	if query.Status != nil {
		status, err := metadata.NewReviewStatus(*query.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "details": err.Error()})
			return
		}
		conditions.AddCondition("status", status)
	}

	requests, err := h.Requests.GetChangeRequestsBy(conditions)
	if err != nil {
		h.log.Error("failed to list change requests", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get change requests", "details": err.Error()})
		return
	}

	if len(requests) == 0 {
		c.JSON(http.StatusOK, []models.ChangeRequest{})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *LedgerHandler) respondWithLedgerError(c *gin.Context, err error) {
	var (
		invalidInput      *custom_error.InvalidInputError
		notFound          *custom_error.NotFoundError
		alreadyReviewed   *custom_error.AlreadyReviewedError
		insufficientStock *custom_error.InsufficientStockError
		storage           *custom_error.StorageUnavailableError
		foreignKey        *custom_error.ForeignKeyViolationError
	)

	switch {
	case errors.As(err, &invalidInput), errors.As(err, &foreignKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &alreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "status": alreadyReviewed.Status})
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &storage):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable, retry the request", "details": err.Error()})
	default:
		h.log.Error("unexpected ledger error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to process change request", "details": err.Error()})
	}
}
