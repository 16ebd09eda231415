package storefront

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/kishkisupermarket/khs/internal/adapter/memory"
	"github.com/kishkisupermarket/khs/internal/domain/entity"
	"github.com/kishkisupermarket/khs/internal/platform/logger"
	"github.com/kishkisupermarket/khs/internal/platform/metrics"
	"github.com/kishkisupermarket/khs/internal/repository"
	"github.com/kishkisupermarket/khs/internal/service"
	"github.com/shopspring/decimal"
)

type storefrontTestContext struct {
	kv         *memory.KeyValueStore
	products   []entity.Product
	source     repository.ProductSource
	session    *Session
	loadResult service.LoadResult
	lastPage   entity.CatalogPage
	err        error
}

func (c *storefrontTestContext) reset() {
	if c.session != nil {
		c.session.Close()
	}
	c.kv = memory.NewKeyValueStore()
	c.products = nil
	c.source = nil
	c.session = nil
	c.loadResult = service.LoadResult{}
	c.lastPage = entity.CatalogPage{}
	c.err = nil
}

func (c *storefrontTestContext) theCatalogContains(table *godog.Table) error {
	if len(table.Rows) == 0 {
		return errors.New("product table is empty")
	}
	header := table.Rows[0].Cells
	for _, row := range table.Rows[1:] {
		var p entity.Product
		for i, cell := range row.Cells {
			value := cell.Value
			switch header[i].Value {
			case "id":
				p.ID = value
			case "name":
				p.Name = value
			case "category":
				p.Category = value
			case "description":
				p.Description = value
			case "price":
				price, err := decimal.NewFromString(value)
				if err != nil {
					return err
				}
				p.Price = price
			case "isNew":
				isNew, err := strconv.ParseBool(value)
				if err != nil {
					return err
				}
				p.IsNew = isNew
			default:
				return fmt.Errorf("unknown product column %q", header[i].Value)
			}
		}
		c.products = append(c.products, p)
	}
	c.source = memory.NewProductSource(c.products)
	return nil
}

func (c *storefrontTestContext) theCatalogContainsNProducts(n int) error {
	for i := 1; i <= n; i++ {
		c.products = append(c.products, entity.Product{
			ID:       strconv.Itoa(i),
			Name:     fmt.Sprintf("Product %d", i),
			Category: "pantry",
			Price:    decimal.NewFromInt(int64(i)),
		})
	}
	c.source = memory.NewProductSource(c.products)
	return nil
}

func (c *storefrontTestContext) theProductSourceIsUnavailable() error {
	c.source = failingSource{}
	return nil
}

func (c *storefrontTestContext) theStoredCartIs(raw string) error {
	return c.kv.Set(context.Background(), service.DefaultCartStorageKey, raw)
}

func (c *storefrontTestContext) theStorefrontIsStarted() error {
	if c.source == nil {
		c.source = memory.NewProductSource(nil)
	}
	if c.session != nil {
		c.session.Close()
	}
	m := metrics.NewMetricsManager("test")
	nop := logger.NewNopLogger()
	cart := service.NewCartStore(c.kv, nil, m, nop, service.CartStoreConfig{})
	catalog := service.NewCatalog(m, nop, service.CatalogConfig{})
	c.session = NewSession(cart, catalog, c.source, 0, nop)
	c.loadResult = c.session.Start(context.Background())
	c.lastPage = c.session.Catalog()
	return nil
}

func (c *storefrontTestContext) iAddProductToTheCart(id string) error {
	_, err := c.session.AddToCart(context.Background(), id)
	return err
}

func (c *storefrontTestContext) iRemoveProductFromTheCart(id string) error {
	c.session.RemoveFromCart(context.Background(), id)
	return nil
}

func (c *storefrontTestContext) iClearTheCart() error {
	c.session.ClearCart(context.Background())
	return nil
}

func (c *storefrontTestContext) theCartHasLines(n int) error {
	if got := len(c.session.Cart().Items); got != n {
		return fmt.Errorf("expected %d cart lines, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartLineHasQuantity(id string, quantity int) error {
	for _, item := range c.session.Cart().Items {
		if item.ID == id {
			if item.Quantity != quantity {
				return fmt.Errorf("expected quantity %d for %s, got %d", quantity, id, item.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("no cart line for %s", id)
}

func (c *storefrontTestContext) theCartItemCountIs(n int) error {
	if got := c.session.Cart().ItemCount; got != n {
		return fmt.Errorf("expected item count %d, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartTotalIs(total string) error {
	if got := c.session.Cart().Total.StringFixed(2); got != total {
		return fmt.Errorf("expected cart total %s, got %s", total, got)
	}
	return nil
}

func (c *storefrontTestContext) iChangeToPage(n int) error {
	c.lastPage, c.err = c.session.ChangePage(n)
	return nil
}

func (c *storefrontTestContext) iSortBy(mode string) error {
	c.lastPage = c.session.SetSortMode(mode)
	return nil
}

func (c *storefrontTestContext) iSearchFor(term string) error {
	c.lastPage = c.session.SetSearchTerm(term)
	return nil
}

func (c *storefrontTestContext) iChooseCategory(category string) error {
	c.lastPage = c.session.SetCategory(category)
	return nil
}

func (c *storefrontTestContext) theCatalogHasPages(n int) error {
	if got := c.session.Catalog().TotalPages; got != n {
		return fmt.Errorf("expected %d pages, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) pageShowsProductsTo(page, from, to int) error {
	current := c.session.Catalog()
	if current.Page != page {
		return fmt.Errorf("expected to be on page %d, on page %d", page, current.Page)
	}
	var want []string
	for i := from; i <= to; i++ {
		want = append(want, strconv.Itoa(i))
	}
	return sameIDs(want, current.Products)
}

func (c *storefrontTestContext) thePageChangeIsRejected() error {
	if !errors.Is(c.err, entity.ErrInvalidPage) {
		return fmt.Errorf("expected ErrInvalidPage, got %v", c.err)
	}
	return nil
}

func (c *storefrontTestContext) theCurrentPageIs(n int) error {
	if got := c.session.Catalog().Page; got != n {
		return fmt.Errorf("expected current page %d, got %d", n, got)
	}
	return nil
}

func (c *storefrontTestContext) theFirstProductShownIs(id string) error {
	products := c.session.Catalog().Products
	if len(products) == 0 {
		return errors.New("no products shown")
	}
	if products[0].ID != id {
		return fmt.Errorf("expected first product %s, got %s", id, products[0].ID)
	}
	return nil
}

func (c *storefrontTestContext) theProductsShownAre(list string) error {
	return sameIDs(strings.Split(list, ","), c.session.Catalog().Products)
}

func (c *storefrontTestContext) noProductsAreShown() error {
	page := c.session.Catalog()
	if !page.Empty() || len(page.Products) != 0 {
		return fmt.Errorf("expected no products, got %d", len(page.Products))
	}
	return nil
}

func (c *storefrontTestContext) theProductLoadFailed() error {
	if !c.loadResult.Failed() {
		return errors.New("expected the product load to fail")
	}
	return nil
}

func sameIDs(want []string, products []entity.Product) error {
	got := make([]string, len(products))
	for i, p := range products {
		got[i] = p.ID
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected products [%s], got [%s]", strings.Join(want, ","), strings.Join(got, ","))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.session != nil {
			tc.session.Close()
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)
	ctx.Step(`^the catalog contains (\d+) products$`, tc.theCatalogContainsNProducts)
	ctx.Step(`^the product source is unavailable$`, tc.theProductSourceIsUnavailable)
	ctx.Step(`^the stored cart is "(.*)"$`, tc.theStoredCartIs)
	ctx.Step(`^the storefront is (?:started|restarted)$`, tc.theStorefrontIsStarted)

	// When steps
	ctx.Step(`^I add product "([^"]*)" to the cart$`, tc.iAddProductToTheCart)
	ctx.Step(`^I remove product "([^"]*)" from the cart$`, tc.iRemoveProductFromTheCart)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^I change to page (\d+)$`, tc.iChangeToPage)
	ctx.Step(`^I sort by "([^"]*)"$`, tc.iSortBy)
	ctx.Step(`^I search for "([^"]*)"$`, tc.iSearchFor)
	ctx.Step(`^I choose category "([^"]*)"$`, tc.iChooseCategory)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart line "([^"]*)" has quantity (\d+)$`, tc.theCartLineHasQuantity)
	ctx.Step(`^the cart item count is (\d+)$`, tc.theCartItemCountIs)
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.theCartTotalIs)
	ctx.Step(`^the catalog has (\d+) pages?$`, tc.theCatalogHasPages)
	ctx.Step(`^page (\d+) shows products (\d+) to (\d+)$`, tc.pageShowsProductsTo)
	ctx.Step(`^the page change is rejected$`, tc.thePageChangeIsRejected)
	ctx.Step(`^the current page is (\d+)$`, tc.theCurrentPageIs)
	ctx.Step(`^the first product shown is "([^"]*)"$`, tc.theFirstProductShownIs)
	ctx.Step(`^the products shown are "([^"]*)"$`, tc.theProductsShownAre)
	ctx.Step(`^no products are shown$`, tc.noProductsAreShown)
	ctx.Step(`^the product load failed$`, tc.theProductLoadFailed)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
