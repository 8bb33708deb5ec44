package services

import (
	"context"

	"github.com/rodriigosc/campaign-watch/models"
)

const usersPath = "/User"

// UserService manages dashboard users. The API only lets admins call it.
type UserService struct {
	api API
}

func NewUserService(api API) *UserService {
	return &UserService{api: api}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.api.Get(ctx, usersPath, nil, &users); err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.api.Get(ctx, pathID(usersPath, id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	var created models.User
	if err := s.api.Post(ctx, usersPath, in, &created); err != nil {
		return nil, err
	}
	s.api.ClearCache()
	return &created, nil
}

func (s *UserService) Update(ctx context.Context, id string, in models.UserInput) error {
	if err := s.api.Put(ctx, pathID(usersPath, id), in, nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, pathID(usersPath, id), nil); err != nil {
		return err
	}
	s.api.ClearCache()
	return nil
}
