package container

import (
	"database/sql"

	"agritrack/internal/equipment"
	"agritrack/internal/ledger"
	"agritrack/internal/repository"
	"agritrack/pkg/auditlog"
	"agritrack/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	LoginHandler     *security.LoginHandler
	EquipmentHandler *equipment.EquipmentHandler
	LedgerHandler    *ledger.LedgerHandler
	Logger           *zap.Logger
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo, log)
	loginHandler := security.NewLoginHandler(repo)

	equipmentRepo := equipment.NewRepository(repo)
	equipmentHandler := equipment.NewEquipmentHandler(equipmentRepo, auditLog, log)

	changeRequestRepo := ledger.NewChangeRequestRepository(repo)
	ledgerService := ledger.NewLedgerService(repo, changeRequestRepo, equipmentRepo, log)
	ledgerHandler := ledger.NewLedgerHandler(ledgerService, changeRequestRepo, auditLog, repo, log)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		LoginHandler:     loginHandler,
		EquipmentHandler: equipmentHandler,
		LedgerHandler:    ledgerHandler,
		Logger:           log,
	}
}
