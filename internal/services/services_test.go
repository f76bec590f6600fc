package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/furniture-backend/internal/cart"
	"github.com/javajoker/furniture-backend/internal/catalog"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/utils"
)

type CatalogServicesTestSuite struct {
	suite.Suite
	ctx        context.Context
	repos      *repository.Set
	products   *ProductService
	categories *CategoryService
	sets       *SetService
	catalog    *CatalogService
}

func (suite *CatalogServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	dir := suite.T().TempDir()
	suite.Require().NoError(repository.EnsureFiles(dir))

	suite.repos = repository.NewFileSet(dir)
	suite.products = NewProductService(suite.repos)
	suite.categories = NewCategoryService(suite.repos)
	suite.sets = NewSetService(suite.repos)
	suite.catalog = NewCatalogService(suite.repos, catalog.New("ru"))

	_, err := suite.categories.Create(suite.ctx, &models.Category{ID: "bedroom", Name: "Bedroom"})
	suite.Require().NoError(err)
}

func (suite *CatalogServicesTestSuite) seedBedroom() *models.ProductSet {
	discount := 20.0
	for _, p := range []*models.Product{
		{ID: "bed", Name: "Bed", CategoryID: "bedroom", Price: 500, InStock: true},
		{ID: "nightstand", Name: "Nightstand", CategoryID: "bedroom", Price: 120, Discount: &discount, InStock: true},
	} {
		_, err := suite.products.Create(suite.ctx, p)
		suite.Require().NoError(err)
	}

	set, err := suite.sets.Create(suite.ctx, &models.ProductSet{
		ID:         "bedroom-set",
		Name:       "Bedroom set",
		CategoryID: "bedroom",
		InStock:    true,
		Items: []models.SetItem{
			{ProductID: "bed", DefaultQuantity: 1, MinQuantity: 1, MaxQuantity: 1, Required: true},
			{ProductID: "nightstand", DefaultQuantity: 2, MinQuantity: 0, MaxQuantity: 4},
		},
	})
	suite.Require().NoError(err)
	return set
}

func (suite *CatalogServicesTestSuite) TestCreateGeneratesIDAndSlug() {
	p, err := suite.products.Create(suite.ctx, &models.Product{Name: "Мой стол", CategoryID: "bedroom", Price: 100})
	suite.Require().NoError(err)

	suite.NotEmpty(p.ID)
	suite.Equal("moy-stol", p.Slug)
	suite.False(p.CreatedAt.IsZero())

	stored, err := suite.products.GetBySlug(suite.ctx, "moy-stol")
	suite.Require().NoError(err)
	suite.Equal(p.ID, stored.ID)
}

func (suite *CatalogServicesTestSuite) TestCreateRejectsInvalidProduct() {
	discount := 150.0
	_, err := suite.products.Create(suite.ctx, &models.Product{Name: "Chair", CategoryID: "bedroom", Price: 100, Discount: &discount})
	suite.ErrorIs(err, ErrValidation)

	errs := utils.GetValidationErrors(err)
	suite.Require().Len(errs, 1)
	suite.Equal("discount", errs[0].Field)

	_, err = suite.products.Create(suite.ctx, &models.Product{Name: "Chair", CategoryID: "kitchen", Price: 100})
	suite.ErrorIs(err, ErrUnknownCategory)
}

func (suite *CatalogServicesTestSuite) TestCreateRejectsExistingID() {
	suite.seedBedroom()

	_, err := suite.products.Create(suite.ctx, &models.Product{ID: "bed", Name: "Other bed", CategoryID: "bedroom", Price: 1})
	suite.ErrorIs(err, ErrAlreadyExists)

	_, err = suite.products.Create(suite.ctx, &models.Product{Name: "Bed", CategoryID: "bedroom", Price: 1})
	suite.ErrorIs(err, repository.ErrDuplicateSlug)
}

func (suite *CatalogServicesTestSuite) TestUpdateIDMismatchWritesNothing() {
	suite.seedBedroom()

	_, err := suite.products.Update(suite.ctx, "bed", &models.Product{ID: "nightstand", Name: "Renamed", CategoryID: "bedroom", Price: 1})
	suite.ErrorIs(err, ErrIDMismatch)

	bed, err := suite.products.Get(suite.ctx, "bed")
	suite.Require().NoError(err)
	suite.Equal("Bed", bed.Name)
	suite.Equal(500.0, bed.Price)
}

func (suite *CatalogServicesTestSuite) TestUpdate() {
	suite.seedBedroom()

	updated, err := suite.products.Update(suite.ctx, "bed", &models.Product{
		Name: "King bed", Slug: "king-bed", CategoryID: "bedroom", Price: 650,
		RelatedProducts: []string{"bed", "nightstand", "nightstand"},
	})
	suite.Require().NoError(err)
	suite.Equal("bed", updated.ID)
	suite.Equal([]string{"nightstand"}, updated.RelatedProducts)

	_, err = suite.products.Update(suite.ctx, "ghost", &models.Product{Name: "Ghost", CategoryID: "bedroom"})
	suite.ErrorIs(err, repository.ErrNotFound)
}

func (suite *CatalogServicesTestSuite) TestCategoryCycleRejected() {
	_, err := suite.categories.Create(suite.ctx, &models.Category{ID: "beds", Name: "Beds", ParentID: "bedroom"})
	suite.Require().NoError(err)

	_, err = suite.categories.Update(suite.ctx, "bedroom", &models.Category{Name: "Bedroom", ParentID: "beds"})
	suite.ErrorIs(err, catalog.ErrCategoryCycle)

	_, err = suite.categories.Update(suite.ctx, "beds", &models.Category{Name: "Beds", ParentID: "beds"})
	suite.ErrorIs(err, catalog.ErrCategoryCycle)

	tree, err := suite.catalog.CategoryTree(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(tree, 1)
	suite.Equal("beds", tree[0].Children[0].ID)
}

func (suite *CatalogServicesTestSuite) TestSetItemBoundsValidated() {
	_, err := suite.sets.Create(suite.ctx, &models.ProductSet{
		Name:       "Broken",
		CategoryID: "bedroom",
		Items:      []models.SetItem{{ProductID: "bed", DefaultQuantity: 1, MinQuantity: 2, MaxQuantity: 3}},
	})
	suite.ErrorIs(err, ErrInvalidSetItems)

	itemErrs := pricing.ItemErrors(err)
	suite.Require().Len(itemErrs, 1)
	suite.Equal("bed", itemErrs[0].ProductID)
}

func (suite *CatalogServicesTestSuite) TestSetExtraCategoriesMustExist() {
	set := &models.ProductSet{
		Name:             "Guest room",
		CategoryID:       "bedroom",
		ExtraCategoryIDs: []string{"nowhere"},
		Items:            []models.SetItem{{ProductID: "bed", DefaultQuantity: 1, MinQuantity: 1, MaxQuantity: 1}},
	}
	_, err := suite.sets.Create(suite.ctx, set)
	suite.ErrorIs(err, ErrUnknownCategory)

	all, err := suite.sets.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Empty(all)

	set.ExtraCategoryIDs = []string{"bedroom"}
	_, err = suite.sets.Create(suite.ctx, set)
	suite.NoError(err)
}

func (suite *CatalogServicesTestSuite) TestDuplicateSet() {
	suite.seedBedroom()

	first, err := suite.sets.Duplicate(suite.ctx, "bedroom-set")
	suite.Require().NoError(err)
	suite.NotEqual("bedroom-set", first.ID)
	suite.Equal("Bedroom set (copy)", first.Name)
	suite.Equal("bedroom-set-copy", first.Slug)
	suite.Len(first.Items, 2)

	second, err := suite.sets.Duplicate(suite.ctx, "bedroom-set")
	suite.Require().NoError(err)
	suite.Equal("bedroom-set-copy-2", second.Slug)

	all, err := suite.sets.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(all, 3)

	_, err = suite.sets.Duplicate(suite.ctx, "ghost")
	suite.ErrorIs(err, repository.ErrNotFound)
}

func (suite *CatalogServicesTestSuite) TestPriceSet() {
	suite.seedBedroom()

	price, err := suite.catalog.PriceSet(suite.ctx, "bedroom-set", pricing.Selection{"nightstand": 9, "bed": 0})
	suite.Require().NoError(err)

	suite.Equal(pricing.Selection{"bed": 1, "nightstand": 4}, price.Selection)
	suite.Equal(900.0, price.Total)
	suite.Equal(980.0, price.ListTotal)
	suite.Equal(80.0, price.Savings)
	suite.Equal(700.0, price.CardPrice)

	defaults, err := suite.catalog.PriceSet(suite.ctx, "bedroom-set", nil)
	suite.Require().NoError(err)
	suite.Equal(defaults.CardPrice, defaults.Total)
}

func (suite *CatalogServicesTestSuite) TestBrowseBedroomShowsSetsOnly() {
	set := suite.seedBedroom()
	_, err := suite.categories.Create(suite.ctx, &models.Category{ID: "furniture", Name: "Furniture"})
	suite.Require().NoError(err)

	// Move the standalone products out of the bedroom.
	for _, id := range []string{"bed", "nightstand"} {
		p, err := suite.products.Get(suite.ctx, id)
		suite.Require().NoError(err)
		p.CategoryID = "furniture"
		_, err = suite.products.Update(suite.ctx, id, p)
		suite.Require().NoError(err)
	}

	result, err := suite.catalog.Browse(suite.ctx, catalog.Query{CategorySlug: "bedroom"})
	suite.Require().NoError(err)
	suite.Empty(result.Products)
	suite.Require().Len(result.Sets, 1)
	suite.Equal(set.ID, result.Sets[0].ID)
	suite.False(result.ShowProductsHeading)
}

func (suite *CatalogServicesTestSuite) TestCartSummary() {
	suite.seedBedroom()

	summary, err := suite.catalog.CartSummary(suite.ctx, []models.CartItem{
		{ProductID: "nightstand", Quantity: 2, Type: models.ItemTypeProduct},
	})
	suite.Require().NoError(err)
	suite.Equal(200.0, summary.Subtotal)
	suite.Equal(2, summary.TotalItems)
}

func TestCatalogServicesSuite(t *testing.T) {
	suite.Run(t, new(CatalogServicesTestSuite))
}

type recordingNotifier struct {
	orders []*models.Order
	err    error
}

func (n *recordingNotifier) NotifyOrderPlaced(order *models.Order) error {
	n.orders = append(n.orders, order)
	return n.err
}

type CheckoutServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	dir      string
	notifier *recordingNotifier
	service  *CheckoutService
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.dir = filepath.Join(suite.T().TempDir(), "orders")
	suite.notifier = &recordingNotifier{}
	suite.service = NewCheckoutService(suite.dir, suite.notifier)
}

func (suite *CheckoutServiceTestSuite) orderFiles() []string {
	files, _ := filepath.Glob(filepath.Join(suite.dir, "*.json"))
	return files
}

func customer() *models.Customer {
	return &models.Customer{Name: "Anna", Phone: "+7 900 000-00-00", Address: "Moscow, Tverskaya 1"}
}

func price(f float64) *float64 { return &f }

func (suite *CheckoutServiceTestSuite) TestPlaceOrderWritesFile() {
	order, err := suite.service.PlaceOrder(suite.ctx, &CheckoutRequest{
		Customer: customer(),
		Items: []models.OrderItem{
			{ID: "bed", Name: "Bed", Quantity: 1, Price: price(500)},
			{ID: "bedroom-set", Name: "Bedroom set", Type: models.ItemTypeSet, Quantity: 1},
			{ID: "nightstand", Name: "Nightstand", Quantity: 2, Price: price(100), SetID: "bedroom-set"},
		},
		Notes: "  call first  ",
	})
	suite.Require().NoError(err)

	suite.Regexp(`^ORD-\d{8}-[A-Z2-9]{6}$`, order.ID)
	suite.Equal(700.0, order.Subtotal)
	suite.Equal("call first", order.Notes)
	suite.Equal(models.ItemTypeProduct, order.Items[0].Type)

	files := suite.orderFiles()
	suite.Require().Len(files, 1)
	suite.Equal(order.ID+".json", filepath.Base(files[0]))

	data, err := os.ReadFile(files[0])
	suite.Require().NoError(err)
	suite.Contains(string(data), `"subtotal": 700`)
	suite.Contains(string(data), `"price": null`)

	suite.Len(suite.notifier.orders, 1)
}

func (suite *CheckoutServiceTestSuite) TestClientSubtotalKept() {
	order, err := suite.service.PlaceOrder(suite.ctx, &CheckoutRequest{
		Customer: customer(),
		Items:    []models.OrderItem{{ID: "bed", Name: "Bed", Quantity: 1, Price: price(500)}},
		Subtotal: 480,
	})
	suite.Require().NoError(err)
	suite.Equal(480.0, order.Subtotal)
}

func (suite *CheckoutServiceTestSuite) TestEmptyItemsWritesNothing() {
	_, err := suite.service.PlaceOrder(suite.ctx, &CheckoutRequest{Customer: customer(), Items: []models.OrderItem{}})
	suite.ErrorIs(err, ErrEmptyOrder)

	_, err = suite.service.PlaceOrder(suite.ctx, &CheckoutRequest{Items: []models.OrderItem{{ID: "bed", Quantity: 1}}})
	suite.ErrorIs(err, ErrMissingCustomer)

	_, err = suite.service.PlaceOrder(suite.ctx, &CheckoutRequest{
		Customer: &models.Customer{Name: "Anna"},
		Items:    []models.OrderItem{{ID: "bed", Quantity: 1}},
	})
	suite.ErrorIs(err, ErrValidation)

	suite.Empty(suite.orderFiles())
	suite.Empty(suite.notifier.orders)
}

func (suite *CheckoutServiceTestSuite) TestNotificationFailureStillSucceeds() {
	suite.notifier.err = errors.New("smtp down")

	order, err := suite.service.PlaceOrder(suite.ctx, &CheckoutRequest{
		Customer: customer(),
		Items:    []models.OrderItem{{ID: "bed", Name: "Bed", Quantity: 1, Price: price(500)}},
	})
	suite.Require().NoError(err)
	suite.NotEmpty(order.ID)
	suite.Len(suite.orderFiles(), 1)
}

func (suite *CheckoutServiceTestSuite) TestCheckoutCart() {
	discount := 20.0
	products := pricing.Index([]*models.Product{
		{ID: "bed", Name: "Bed", Price: 500},
		{ID: "nightstand", Name: "Nightstand", Price: 120, Discount: &discount},
	})
	sets := cart.IndexSets([]*models.ProductSet{{
		ID:   "bedroom-set",
		Name: "Bedroom set",
		Items: []models.SetItem{
			{ProductID: "bed", DefaultQuantity: 1, MinQuantity: 1, MaxQuantity: 1, Required: true},
			{ProductID: "nightstand", DefaultQuantity: 2, MaxQuantity: 4},
		},
	}})

	store, err := cart.Open(suite.ctx, cart.NewMemoryStorage(), "cart-1")
	suite.Require().NoError(err)
	suite.Require().NoError(store.AddToCart(suite.ctx, "nightstand", 1))
	suite.Require().NoError(store.AddSetBundle(suite.ctx, "bedroom-set", []models.BundleEntry{{ProductID: "nightstand", Quantity: 1}}))

	order, err := suite.service.CheckoutCart(suite.ctx, store, &CartCheckoutRequest{Customer: customer()}, products, sets)
	suite.Require().NoError(err)

	suite.Require().Len(order.Items, 4)
	suite.Equal(models.ItemTypeSet, order.Items[1].Type)
	suite.Nil(order.Items[1].Price)
	suite.Equal("bedroom-set", order.Items[2].SetID)
	suite.Equal(700.0, order.Subtotal)
	suite.Empty(store.Items())

	_, err = suite.service.CheckoutCart(suite.ctx, store, &CartCheckoutRequest{Customer: customer()}, products, sets)
	suite.ErrorIs(err, ErrEmptyOrder)
}

func (suite *CheckoutServiceTestSuite) TestUnavailableCartItems() {
	store, err := cart.Open(suite.ctx, cart.NewMemoryStorage(), "cart-2")
	suite.Require().NoError(err)
	suite.Require().NoError(store.AddToCart(suite.ctx, "gone", 1))

	_, err = suite.service.CheckoutCart(suite.ctx, store, &CartCheckoutRequest{Customer: customer()}, pricing.ProductIndex{}, cart.SetIndex{})
	suite.ErrorIs(err, ErrUnavailableItems)
	suite.Len(store.Items(), 1)
	suite.Empty(suite.orderFiles())
}

func TestCheckoutServiceSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
