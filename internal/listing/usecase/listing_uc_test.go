package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/listing/domain"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockCache) DeleteListing(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func validForm() ListingForm {
	return ListingForm{
		Name:        "onix",
		Model:       "1.0",
		Year:        "2016",
		Mileage:     "20000",
		Price:       "30000",
		City:        "Campo Grande",
		Phone:       "11987654321",
		Description: "carro bom",
	}
}

func newListingUsecaseForTest(repo domain.ListingRepository, cache ListingCache, pub EventPublisher) (*ListingUsecase, *DraftUsecase) {
	storage := newFakeStorage()
	drafts := NewDraftUsecase(storage, zap.NewNop())
	uc := NewListingUsecase(repo, drafts, storage, cache, pub, nil, zap.NewNop())
	return uc, drafts
}

func stage(t *testing.T, drafts *DraftUsecase, owner string, files ...string) {
	t.Helper()
	for _, f := range files {
		ct := "image/png"
		if f[len(f)-3:] == "jpg" {
			ct = "image/jpeg"
		}
		_, err := drafts.UploadImage(context.Background(), owner, f, ct, []byte(f))
		require.NoError(t, err)
	}
}

func TestCreateListing_Success(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockCache)
	pub := new(MockPublisher)
	uc, drafts := newListingUsecaseForTest(repo, cache, pub)

	stage(t, drafts, "owner-1", "a.png", "b.jpg")

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Listing")).Return(nil).Once()
	pub.On("Publish", mock.Anything, SubjectListingCreated, mock.Anything).Return(nil).Once()

	listing, err := uc.CreateListing(context.Background(), "owner-1", "Rodrigo", "", validForm())
	require.NoError(t, err)

	assert.Equal(t, "ONIX", listing.Name)
	assert.Equal(t, "owner-1", listing.OwnerID)
	assert.Equal(t, "Rodrigo", listing.OwnerName)
	assert.Len(t, listing.Images, 2)
	assert.False(t, listing.CreatedAt.IsZero())
	for _, img := range listing.Images {
		assert.Equal(t, "owner-1", img.OwnerID)
		assert.NotEmpty(t, img.StorageKey)
		assert.NotEmpty(t, img.RemoteURL)
	}

	// workspace cleared after a successful submit
	assert.Empty(t, drafts.Entries("owner-1"))

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateListing_EmptyImageSetNeverWrites(t *testing.T) {
	repo := new(MockListingRepository)
	uc, _ := newListingUsecaseForTest(repo, new(MockCache), new(MockPublisher))

	_, err := uc.CreateListing(context.Background(), "owner-1", "Rodrigo", "", validForm())
	assert.ErrorIs(t, err, domain.ErrNoImages)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListing_InvalidForm(t *testing.T) {
	repo := new(MockListingRepository)
	uc, drafts := newListingUsecaseForTest(repo, new(MockCache), new(MockPublisher))
	stage(t, drafts, "owner-1", "a.png")

	cases := map[string]func(*ListingForm){
		"empty name":      func(f *ListingForm) { f.Name = "" },
		"empty city":      func(f *ListingForm) { f.City = "" },
		"short phone":     func(f *ListingForm) { f.Phone = "123456789" },
		"long phone":      func(f *ListingForm) { f.Phone = "119876543210" },
		"non-digit phone": func(f *ListingForm) { f.Phone = "11-98765432" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			mutate(&form)
			_, err := uc.CreateListing(context.Background(), "owner-1", "Rodrigo", "", form)
			assert.ErrorIs(t, err, domain.ErrInvalidListingData)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	// images stay staged for the retry
	assert.Len(t, drafts.Entries("owner-1"), 1)
}

func TestCreateListing_RepoFailureKeepsWorkspace(t *testing.T) {
	repo := new(MockListingRepository)
	uc, drafts := newListingUsecaseForTest(repo, new(MockCache), new(MockPublisher))
	stage(t, drafts, "owner-1", "a.png")

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

	_, err := uc.CreateListing(context.Background(), "owner-1", "Rodrigo", "", validForm())
	assert.Error(t, err)
	assert.Len(t, drafts.Entries("owner-1"), 1)
}

func TestGetListing_CacheHitSkipsRepo(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockCache)
	uc, _ := newListingUsecaseForTest(repo, cache, new(MockPublisher))

	cached := &domain.Listing{ID: "id-1", Name: "ONIX"}
	cache.On("GetListing", mock.Anything, "id-1").Return(cached, nil).Once()

	got, err := uc.GetListing(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, cached, got)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetListing_CacheMissPopulatesCache(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockCache)
	uc, _ := newListingUsecaseForTest(repo, cache, new(MockPublisher))

	stored := &domain.Listing{ID: "id-1", Name: "ONIX"}
	cache.On("GetListing", mock.Anything, "id-1").Return(nil, nil).Once()
	repo.On("FindByID", mock.Anything, "id-1").Return(stored, nil).Once()
	cache.On("SetListing", mock.Anything, stored).Return(nil).Once()

	got, err := uc.GetListing(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	cache.AssertExpectations(t)
}

func TestGetListing_NotFound(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockCache)
	uc, _ := newListingUsecaseForTest(repo, cache, new(MockPublisher))

	cache.On("GetListing", mock.Anything, "missing").Return(nil, nil).Once()
	repo.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrListingNotFound).Once()

	_, err := uc.GetListing(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestDeleteListing_OwnerOnly(t *testing.T) {
	repo := new(MockListingRepository)
	uc, _ := newListingUsecaseForTest(repo, new(MockCache), new(MockPublisher))

	stored := &domain.Listing{ID: "id-1", OwnerID: "owner-1"}
	repo.On("FindByID", mock.Anything, "id-1").Return(stored, nil).Once()

	err := uc.DeleteListing(context.Background(), "id-1", "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteListing_RemovesDocumentCacheAndImages(t *testing.T) {
	repo := new(MockListingRepository)
	cache := new(MockCache)
	pub := new(MockPublisher)

	storage := newFakeStorage()
	drafts := NewDraftUsecase(storage, zap.NewNop())
	uc := NewListingUsecase(repo, drafts, storage, cache, pub, nil, zap.NewNop())

	require.NoError(t, storage.Upload(context.Background(), "images/owner-1/k1.png", "image/png", []byte("png")))
	stored := &domain.Listing{
		ID:      "id-1",
		OwnerID: "owner-1",
		Images:  []domain.ListingImage{{StorageKey: "images/owner-1/k1.png", OwnerID: "owner-1"}},
	}

	repo.On("FindByID", mock.Anything, "id-1").Return(stored, nil).Once()
	repo.On("Delete", mock.Anything, "id-1").Return(nil).Once()
	cache.On("DeleteListing", mock.Anything, "id-1").Return(nil).Once()
	pub.On("Publish", mock.Anything, SubjectListingDeleted, mock.Anything).Return(nil).Once()

	require.NoError(t, uc.DeleteListing(context.Background(), "id-1", "owner-1"))
	assert.NotContains(t, storage.objects, "images/owner-1/k1.png")
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	pub.AssertExpectations(t)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendListingCreatedEmail(toEmail, listingName string) error {
	args := m.Called(toEmail, listingName)
	return args.Error(0)
}

func TestCreateListing_SendsOwnerEmail(t *testing.T) {
	repo := new(MockListingRepository)
	pub := new(MockPublisher)
	mailer := new(MockMailer)

	storage := newFakeStorage()
	drafts := NewDraftUsecase(storage, zap.NewNop())
	uc := NewListingUsecase(repo, drafts, storage, new(MockCache), pub, mailer, zap.NewNop())
	stage(t, drafts, "owner-1", "a.png")

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	pub.On("Publish", mock.Anything, SubjectListingCreated, mock.Anything).Return(nil).Once()
	mailer.On("SendListingCreatedEmail", "rodrigo@example.com", "ONIX").Return(nil).Once()

	_, err := uc.CreateListing(context.Background(), "owner-1", "Rodrigo", "rodrigo@example.com", validForm())
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSearchListings(t *testing.T) {
	repo := new(MockListingRepository)
	uc, _ := newListingUsecaseForTest(repo, new(MockCache), new(MockPublisher))

	results := []*domain.Listing{{ID: "id-1", Name: "ONIX"}}
	repo.On("FindByFilter", mock.Anything, domain.Filter{Search: "onix"}).Return(results, nil).Once()

	got, err := uc.SearchListings(context.Background(), "onix")
	require.NoError(t, err)
	assert.Equal(t, results, got)
}

func TestListingsByOwner(t *testing.T) {
	repo := new(MockListingRepository)
	uc, _ := newListingUsecaseForTest(repo, new(MockCache), new(MockPublisher))

	results := []*domain.Listing{{ID: "id-1", OwnerID: "owner-1"}}
	repo.On("FindByFilter", mock.Anything, domain.Filter{OwnerID: "owner-1"}).Return(results, nil).Once()

	got, err := uc.ListingsByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, results, got)
}
