package service

import (
	"github.com/fakturo/fakturo/internal/config"
	"github.com/fakturo/fakturo/internal/domain/auditlog"
	"github.com/fakturo/fakturo/internal/domain/customer"
	"github.com/fakturo/fakturo/internal/domain/invoice"
	"github.com/fakturo/fakturo/internal/domain/numbering"
	"github.com/fakturo/fakturo/internal/domain/payment"
	"github.com/fakturo/fakturo/internal/domain/reminder"
	"github.com/fakturo/fakturo/internal/domain/settings"
	"github.com/fakturo/fakturo/internal/logger"
	"github.com/fakturo/fakturo/internal/storage"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     storage.TxManager

	// Repositories
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	CustomerRepo customer.Repository
	SequenceRepo numbering.Repository
	ReminderRepo reminder.Repository
	AuditLogRepo auditlog.Repository
	EmailLogRepo auditlog.EmailLogRepository
	SettingsRepo settings.Repository
}
