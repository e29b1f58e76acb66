package service

import (
	"context"
	"strings"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/ws"
)

type AddCustomerInput struct {
	Name    string  `json:"name" validate:"notblank,max=128"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Note    *string `json:"note"`
}

type CustomerService interface {
	AddCustomer(ctx context.Context, in AddCustomerInput) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	ListCustomersByName(ctx context.Context) ([]model.Customer, error)
}

type customerService struct {
	customers repository.CustomerRepository
	notifier  Notifier
}

func NewCustomerService(customers repository.CustomerRepository, notifier Notifier) CustomerService {
	return &customerService{customers: customers, notifier: notifierOrNop(notifier)}
}

func (s *customerService) AddCustomer(ctx context.Context, in AddCustomerInput) (*model.Customer, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	customer := &model.Customer{
		Name:    strings.TrimSpace(in.Name),
		Phone:   optional(in.Phone),
		Address: optional(in.Address),
		Note:    optional(in.Note),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		logger.Errorw("customer_create_failed", "error", err)
		return nil, err
	}

	logger.Infow("customer_created", "customer_id", customer.ID)
	s.notifier.Publish(ws.Event{
		Type:    ws.TypeCustomerUpdate,
		Action:  "customer_created",
		User:    model.IdentityFrom(ctx),
		Data:    customer,
		Message: "customer " + customer.Name + " added",
	})
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.FindAll(ctx)
}

func (s *customerService) ListCustomersByName(ctx context.Context) ([]model.Customer, error) {
	return s.customers.FindAllByName(ctx)
}
