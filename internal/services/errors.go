package services

import "errors"

var (
	ErrProductNotFound = errors.New("no product found with given id")
	ErrBrandNotFound   = errors.New("brand with given id not found")
	ErrCategoryCount   = errors.New("categories number must be between 1 and 5")
)
