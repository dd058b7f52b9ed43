package services

import "github.com/go-playground/validator/v10"

// baseService carries dependencies shared by every service implementation.
type baseService struct {
	validate *validator.Validate
}

func newBaseService() baseService {
	return baseService{validate: validator.New(validator.WithRequiredStructEnabled())}
}
