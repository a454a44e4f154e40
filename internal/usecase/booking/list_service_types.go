package booking

import (
	"context"

	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/models"
)

type ListServiceTypes struct {
	repo scheduling.Repository
}

func NewListServiceTypes(repo scheduling.Repository) *ListServiceTypes {
	return &ListServiceTypes{repo: repo}
}

func (uc *ListServiceTypes) Execute(ctx context.Context) ([]models.ServiceType, error) {
	return uc.repo.ListActiveServiceTypes(ctx)
}
