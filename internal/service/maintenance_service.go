package service

import (
	"context"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/ws"
	"go-inventory-crm/pkg/database"

	"gorm.io/gorm"
)

type AddMaintenanceInput struct {
	CustomerID uint    `json:"customer_id" validate:"required"`
	ProductID  *uint   `json:"product_id"`
	Content    *string `json:"content"`
	Result     *string `json:"result"`
}

type MaintenanceService interface {
	AddMaintenance(ctx context.Context, in AddMaintenanceInput) (*model.Maintenance, error)
	ListMaintenance(ctx context.Context, limit int) ([]repository.MaintenanceView, error)
}

type maintenanceService struct {
	uow       database.UnitOfWork
	customers repository.CustomerRepository
	products  repository.ProductRepository
	records   repository.MaintenanceRepository
	reports   repository.ReportRepository
	notifier  Notifier
}

func NewMaintenanceService(
	uow database.UnitOfWork,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	records repository.MaintenanceRepository,
	reports repository.ReportRepository,
	notifier Notifier,
) MaintenanceService {
	return &maintenanceService{
		uow:       uow,
		customers: customers,
		products:  products,
		records:   records,
		reports:   reports,
		notifier:  notifierOrNop(notifier),
	}
}

func (s *maintenanceService) AddMaintenance(ctx context.Context, in AddMaintenanceInput) (*model.Maintenance, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	// product_id 0 from a form means "no product".
	if in.ProductID != nil && *in.ProductID == 0 {
		in.ProductID = nil
	}

	record := &model.Maintenance{
		CustomerID: in.CustomerID,
		ProductID:  in.ProductID,
		Content:    optional(in.Content),
		Result:     optional(in.Result),
	}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if _, err := s.customers.WithTx(tx).FindByID(ctx, in.CustomerID); err != nil {
			return notFoundAs(err, ErrCustomerNotFound)
		}
		if in.ProductID != nil {
			if _, err := s.products.WithTx(tx).FindByID(ctx, *in.ProductID); err != nil {
				return notFoundAs(err, ErrProductNotFound)
			}
		}
		return s.records.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		logFailure("maintenance_create_failed", err, "customer_id", in.CustomerID)
		return nil, err
	}

	logger.Infow("maintenance_logged", "maintenance_id", record.ID, "customer_id", record.CustomerID)
	s.notifier.Publish(ws.Event{
		Type:   ws.TypeMaintenance,
		Action: "maintenance_created",
		User:   model.IdentityFrom(ctx),
		Data:   record,
	})
	return record, nil
}

func (s *maintenanceService) ListMaintenance(ctx context.Context, limit int) ([]repository.MaintenanceView, error) {
	return s.reports.RecentMaintenance(ctx, limit)
}
