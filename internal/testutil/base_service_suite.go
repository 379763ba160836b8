package testutil

import (
	"context"
	"time"

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
	"github.com/fakturo/fakturo/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	CustomerRepo customer.Repository
	SequenceRepo numbering.Repository
	ReminderRepo reminder.Repository
	AuditLogRepo auditlog.Repository
	EmailLogRepo auditlog.EmailLogRepository
	SettingsRepo settings.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     storage.TxManager
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := &config.Configuration{
		Deployment: config.DeploymentConfig{Mode: types.ModeLocal},
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Sequencer: config.SequencerConfig{MaxRetries: 5},
	}

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		PaymentRepo:  NewInMemoryPaymentStore(),
		CustomerRepo: NewInMemoryCustomerStore(),
		SequenceRepo: NewInMemorySequenceStore(),
		ReminderRepo: NewInMemoryReminderStore(),
		AuditLogRepo: NewInMemoryAuditLogStore(),
		EmailLogRepo: NewInMemoryEmailLogStore(),
		SettingsRepo: NewInMemorySettingsStore(),
	}
	s.db = NewInMemoryTxManager()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.CustomerRepo.(*InMemoryCustomerStore).Clear()
	s.stores.SequenceRepo.(*InMemorySequenceStore).Clear()
	s.stores.ReminderRepo.(*InMemoryReminderStore).Clear()
	s.stores.AuditLogRepo.(*InMemoryAuditLogStore).Clear()
	s.stores.EmailLogRepo.(*InMemoryEmailLogStore).Clear()
	s.stores.SettingsRepo.(*InMemorySettingsStore).Clear()
}

// ClearStores removes all data from every store
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test transaction manager
func (s *BaseServiceTestSuite) GetDB() storage.TxManager {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
