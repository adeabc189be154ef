package impl

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceMocks struct {
	productRepo  *mockRepo.MockProductRepository
	imageStorage *mockSvc.MockImageStorage
}

func newProductService(t *testing.T) (usecase.ProductUsecase, *productServiceMocks) {
	t.Helper()

	m := &productServiceMocks{
		productRepo:  mockRepo.NewMockProductRepository(t),
		imageStorage: mockSvc.NewMockImageStorage(t),
	}

	cfg := &config.Config{
		Pagination: &config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 50},
	}

	service := NewProductService(ProductServiceParams{
		ProductRepo:  m.productRepo,
		ImageStorage: m.imageStorage,
		Config:       cfg,
		Logger:       slog.Default(),
	})

	return service, m
}

func TestProductService_CreateProduct(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	creatorID := uuid.New()

	m.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		RunAndReturn(func(_ context.Context, product *entity.Product) error {
			product.ID = uuid.New()

			return nil
		})

	product, err := service.CreateProduct(ctx, &usecase.CreateProductInput{
		Name:        "Mechanical Keyboard",
		Description: "A sturdy 87-key mechanical keyboard.",
		Price:       129.99,
		Stock:       10,
		Category:    "peripherals",
		CreatorID:   creatorID,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "Mechanical Keyboard", product.Name)
	assert.Equal(t, 129.99, product.Price)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, creatorID, product.UserID)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	id := uuid.New()
	m.productRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrProductNotFound)

	product, err := service.GetProduct(ctx, id)
	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_ListProducts_PaginationBounds(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	// Requested size above the configured maximum is clamped to 50.
	m.productRepo.EXPECT().
		List(ctx, 50, 50).
		Return([]*entity.Product{{ID: uuid.New()}}, int64(120), nil)

	output, err := service.ListProducts(ctx, &usecase.ListProductsInput{Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Page)
	assert.Equal(t, 50, output.PageSize)
	assert.Equal(t, int64(120), output.Total)
	assert.Len(t, output.Products, 1)
}

func TestProductService_UpdateProduct(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	existing := &entity.Product{
		ID:          uuid.New(),
		Name:        "Mechanical Keyboard",
		Description: "A sturdy 87-key mechanical keyboard.",
		Price:       129.99,
		Stock:       10,
		Category:    "peripherals",
	}

	m.productRepo.EXPECT().FindByID(ctx, existing.ID).Return(existing, nil)
	m.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Return(nil)

	newPrice := 99.99
	newStock := 25

	product, err := service.UpdateProduct(ctx, existing.ID, &usecase.UpdateProductInput{
		Price: &newPrice,
		Stock: &newStock,
	})

	require.NoError(t, err)
	assert.Equal(t, 99.99, product.Price)
	assert.Equal(t, 25, product.Stock)
	// Untouched fields keep their values.
	assert.Equal(t, "Mechanical Keyboard", product.Name)
	assert.Equal(t, "peripherals", product.Category)
}

func TestProductService_UpdateProduct_EmptyUpdate(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	product, err := service.UpdateProduct(ctx, uuid.New(), &usecase.UpdateProductInput{})
	require.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, domainerrors.ErrProductUpdateEmpty))
	m.productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	id := uuid.New()
	m.productRepo.EXPECT().Delete(ctx, id).Return(repository.ErrProductNotFound)

	err := service.DeleteProduct(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_UploadProductImage(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Mechanical Keyboard"}
	content := strings.NewReader("png-bytes")

	m.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	m.imageStorage.EXPECT().
		Save(ctx, "products/"+product.ID.String()+".png", "image/png", content).
		Return("http://localhost:8080/images/products/"+product.ID.String()+".png", nil)
	m.productRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Product")).
		Return(nil)

	updated, err := service.UploadProductImage(ctx, &usecase.UploadImageInput{
		ProductID:   product.ID,
		FileName:    "keyboard.png",
		ContentType: "image/png",
		Content:     content,
	})

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/images/products/"+product.ID.String()+".png", updated.ImageURL)
}

func TestProductService_UploadProductImage_UnsupportedType(t *testing.T) {
	service, m := newProductService(t)
	ctx := context.Background()

	updated, err := service.UploadProductImage(ctx, &usecase.UploadImageInput{
		ProductID:   uuid.New(),
		FileName:    "notes.txt",
		ContentType: "text/plain",
		Content:     strings.NewReader("not an image"),
	})

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrUnsupportedImageType))
	m.imageStorage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
