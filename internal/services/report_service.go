package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/store"
)

// ReportService produces account statements. Reports are generated per
// request and never cached.
type ReportService struct {
	gateway   ReportGateway
	customers *store.Collection[models.Customer]
}

func NewReportService(gateway ReportGateway, customers *store.Collection[models.Customer]) *ReportService {
	return &ReportService{gateway: gateway, customers: customers}
}

func (s *ReportService) Statement(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error) {
	if customerID.IsZero() {
		return models.Report{}, fmt.Errorf("ReportService.Statement: %w", ErrMissingKey)
	}
	if from != nil && to != nil && from.After(*to) {
		return models.Report{}, fmt.Errorf("ReportService.Statement: %w", ErrInvalidRange)
	}
	report, err := s.gateway.Statement(ctx, customerID, from, to)
	if err != nil {
		return models.Report{}, fmt.Errorf("ReportService.Statement: %w", err)
	}
	if report.Content == "" {
		return models.Report{}, fmt.Errorf("ReportService.Statement: %w", models.ErrEmptyReport)
	}
	if s.customers != nil && (report.Name == "" || report.NationalID == "") {
		if customer, ok := store.Resolve(s.customers, customerID, store.CustomerID); ok {
			if report.Name == "" {
				report.Name = customer.Name
			}
			if report.NationalID == "" {
				report.NationalID = customer.NationalID
			}
		}
	}
	return report, nil
}
