package auditlog

import (
	"agritrack/internal/repository"
	"agritrack/pkg/models"

	"go.uber.org/zap"
)

type Auditlog struct {
	r   *repository.Repository
	log *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(r *repository.Repository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: r, log: log}
}

// Log records an action against a resource. Audit failures are logged and
// swallowed so they never fail the business operation.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.r.PersistLog(auditLog, data); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("resource_type", auditLog.ResourceType),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("created audit log entry",
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("action", action),
	)
}
