package fleet

import (
	"context"
	"fmt"
	"net/http"

	"fleetctl/pkg/api"
)

type BusStatus string

const (
	BusActive   BusStatus = "ACTIVE"
	BusInactive BusStatus = "INACTIVE"
)

type Bus struct {
	ID           int64     `json:"id"`
	Number       string    `json:"number"`
	LicensePlate string    `json:"licensePlate"`
	Brand        string    `json:"brand"`
	Features     string    `json:"features,omitempty"`
	Status       BusStatus `json:"status"`
}

type CreateBusRequest struct {
	Number       string    `json:"number"`
	LicensePlate string    `json:"licensePlate"`
	BrandID      int64     `json:"brandId"`
	Features     string    `json:"features"`
	Status       BusStatus `json:"status,omitempty"` // backend defaults to ACTIVE
}

// UpdateBusRequest is a partial update; nil fields are left untouched.
type UpdateBusRequest struct {
	Number       *string    `json:"number,omitempty"`
	LicensePlate *string    `json:"licensePlate,omitempty"`
	BrandID      *int64     `json:"brandId,omitempty"`
	Features     *string    `json:"features,omitempty"`
	Status       *BusStatus `json:"status,omitempty"`
}

// BusService is the client for the bus CRUD endpoints.
type BusService struct {
	API *api.Client
}

func NewBusService(apiClient *api.Client) *BusService {
	return &BusService{API: apiClient}
}

func (s *BusService) List(ctx context.Context, page PageRequest) (*Page[Bus], error) {
	var out Page[Bus]
	if err := s.API.Do(ctx, http.MethodGet, "/buses", page.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BusService) Get(ctx context.Context, id int64) (*Bus, error) {
	var out Bus
	if err := s.API.Do(ctx, http.MethodGet, fmt.Sprintf("/buses/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BusService) Create(ctx context.Context, req CreateBusRequest) (*Bus, error) {
	var out Bus
	if err := s.API.Do(ctx, http.MethodPost, "/buses", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BusService) Update(ctx context.Context, id int64, req UpdateBusRequest) (*Bus, error) {
	var out Bus
	if err := s.API.Do(ctx, http.MethodPut, fmt.Sprintf("/buses/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BusService) Activate(ctx context.Context, id int64) (*Bus, error) {
	return s.patchStatus(ctx, id, "activate")
}

func (s *BusService) Deactivate(ctx context.Context, id int64) (*Bus, error) {
	return s.patchStatus(ctx, id, "deactivate")
}

// Delete is a logical delete on the backend side.
func (s *BusService) Delete(ctx context.Context, id int64) error {
	return s.API.Do(ctx, http.MethodDelete, fmt.Sprintf("/buses/%d", id), nil, nil, nil)
}

func (s *BusService) patchStatus(ctx context.Context, id int64, action string) (*Bus, error) {
	var out Bus
	if err := s.API.Do(ctx, http.MethodPatch, fmt.Sprintf("/buses/%d/%s", id, action), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
