package domain

import "errors"

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrInvalidListingData   = errors.New("invalid listing data")
	ErrNoImages             = errors.New("listing must have at least one image")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageNotFound        = errors.New("image not found in draft")
	ErrForbidden            = errors.New("user not authorized to perform this action")
)
