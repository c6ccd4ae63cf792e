package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/webcarros/backend/internal/listing/domain"
)

type imageDocument struct {
	StorageKey string `bson:"storage_key"`
	OwnerID    string `bson:"owner_id"`
	RemoteURL  string `bson:"remote_url"`
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	OwnerName   string             `bson:"owner_name"`
	Name        string             `bson:"name"`
	Model       string             `bson:"model"`
	Year        string             `bson:"year"`
	Mileage     string             `bson:"km"`
	Price       string             `bson:"price"`
	City        string             `bson:"city"`
	Phone       string             `bson:"whatsapp"`
	Description string             `bson:"description"`
	Images      []imageDocument    `bson:"images"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	var docID primitive.ObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
	}

	images := make([]imageDocument, 0, len(l.Images))
	for _, img := range l.Images {
		images = append(images, imageDocument{
			StorageKey: img.StorageKey,
			OwnerID:    img.OwnerID,
			RemoteURL:  img.RemoteURL,
		})
	}

	return &listingDocument{
		ID:          docID,
		OwnerID:     l.OwnerID,
		OwnerName:   l.OwnerName,
		Name:        l.Name,
		Model:       l.Model,
		Year:        l.Year,
		Mileage:     l.Mileage,
		Price:       l.Price,
		City:        l.City,
		Phone:       l.Phone,
		Description: l.Description,
		Images:      images,
		CreatedAt:   l.CreatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	images := make([]domain.ListingImage, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, domain.ListingImage{
			StorageKey: img.StorageKey,
			OwnerID:    img.OwnerID,
			RemoteURL:  img.RemoteURL,
		})
	}

	return &domain.Listing{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		OwnerName:   d.OwnerName,
		Name:        d.Name,
		Model:       d.Model,
		Year:        d.Year,
		Mileage:     d.Mileage,
		Price:       d.Price,
		City:        d.City,
		Phone:       d.Phone,
		Description: d.Description,
		Images:      images,
		CreatedAt:   d.CreatedAt,
	}
}
