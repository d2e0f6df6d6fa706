package repository

import (
	"encoding/json"
	"fmt"

	"agritrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

func (r *Repository) PersistLog(auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   auditlog.ResourceID,
			"resource_type": auditlog.ResourceType,
			"action":        auditlog.Action,
			"data":          dataJSON,
			"user_id":       auditlog.UserID,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log record: %w", err)
	}

	return nil
}

func (r *Repository) GetLogsByResource(resourceType string, resourceID int) ([]models.AuditLog, error) {
	var logs []models.AuditLog

	query := r.GoquDBWrapper.
		Select("id", "resource_id", "resource_type", "action", goqu.C("data").As("data"), "created_at", "user_id").
		From("audit_logs").
		Where(goqu.Ex{
			"resource_type": resourceType,
			"resource_id":   resourceID,
		}).
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("unable to select audit logs from database: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return logs, nil
}
