package fleet

import (
	"context"
	"fmt"
	"net/http"

	"fleetctl/pkg/api"
)

type BusBrand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CreateBusBrandRequest struct {
	Name string `json:"name"`
}

// BrandDependencies tells whether a brand can be deleted and how many buses
// hang off it.
type BrandDependencies struct {
	BusBrandID         int64  `json:"busBrandId"`
	BrandName          string `json:"brandName"`
	ActiveBusesCount   int    `json:"activeBusesCount"`
	InactiveBusesCount int    `json:"inactiveBusesCount"`
	TotalBusesCount    int    `json:"totalBusesCount"`
	CanBeDeleted       bool   `json:"canBeDeleted"`
}

// BrandService is the client for the bus brand endpoints.
type BrandService struct {
	API *api.Client
}

func NewBrandService(apiClient *api.Client) *BrandService {
	return &BrandService{API: apiClient}
}

func (s *BrandService) List(ctx context.Context, page PageRequest) (*Page[BusBrand], error) {
	var out Page[BusBrand]
	if err := s.API.Do(ctx, http.MethodGet, "/bus-brands", page.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All fetches every brand in one go, for form dropdowns.
func (s *BrandService) All(ctx context.Context) ([]BusBrand, error) {
	page, err := s.List(ctx, PageRequest{Page: 0, Size: 100, SortBy: "name", SortDirection: "asc"})
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (s *BrandService) Create(ctx context.Context, req CreateBusBrandRequest) (*BusBrand, error) {
	var out BusBrand
	if err := s.API.Do(ctx, http.MethodPost, "/bus-brands", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BrandService) Update(ctx context.Context, id int64, req CreateBusBrandRequest) (*BusBrand, error) {
	var out BusBrand
	if err := s.API.Do(ctx, http.MethodPut, fmt.Sprintf("/bus-brands/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BrandService) SearchByName(ctx context.Context, name string, page PageRequest) (*Page[BusBrand], error) {
	q := page.query()
	q.Set("name", name)
	var out Page[BusBrand]
	if err := s.API.Do(ctx, http.MethodGet, "/bus-brands/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BrandService) Dependencies(ctx context.Context, id int64) (*BrandDependencies, error) {
	var out BrandDependencies
	if err := s.API.Do(ctx, http.MethodGet, fmt.Sprintf("/bus-brands/%d/dependencies", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete fails on the backend side when the brand still has buses.
func (s *BrandService) Delete(ctx context.Context, id int64) error {
	return s.API.Do(ctx, http.MethodDelete, fmt.Sprintf("/bus-brands/%d", id), nil, nil, nil)
}

// ForceDelete removes the brand together with its buses.
func (s *BrandService) ForceDelete(ctx context.Context, id int64) error {
	return s.API.Do(ctx, http.MethodDelete, fmt.Sprintf("/bus-brands/%d/force", id), nil, nil, nil)
}
