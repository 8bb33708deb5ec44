package services

import (
	"context"

	"github.com/rodriigosc/campaign-watch/models"
)

const clientsPath = "/Client"

// ClientService reads and manages monitored clients
type ClientService struct {
	api API
}

func NewClientService(api API) *ClientService {
	return &ClientService{api: api}
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.api.Get(ctx, clientsPath, nil, &clients); err != nil {
		return nil, err
	}
	return nonNil(clients), nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.api.Get(ctx, pathID(clientsPath, id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) Create(ctx context.Context, in models.Client) (*models.Client, error) {
	var created models.Client
	if err := s.api.Post(ctx, clientsPath, in, &created); err != nil {
		return nil, err
	}
	s.api.ClearCache()
	return &created, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in models.Client) error {
	if err := s.api.Put(ctx, pathID(clientsPath, id), in, nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, pathID(clientsPath, id), nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}
