// Package cli is the presentation layer: a small command front-end over
// the storefront usecases. Output formatting here is incidental; all the
// behavior lives in the usecase packages.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	domcatalog "example.com/dukatech/client/internal/domain/catalog"
	domorder "example.com/dukatech/client/internal/domain/order"
	"example.com/dukatech/client/internal/event"
	"example.com/dukatech/client/internal/usecase/authn"
	cartuc "example.com/dukatech/client/internal/usecase/cart"
	cataloguc "example.com/dukatech/client/internal/usecase/catalog"
	"example.com/dukatech/client/internal/usecase/checkout"
	"example.com/dukatech/client/internal/usecase/search"
)

// noFilter is the one canonical "no filter" sentinel pickers may hand us;
// it maps to the zero value before any filter reaches a client.
const noFilter = "All"

type App struct {
	Auth     *authn.Service
	Catalog  *cataloguc.Client
	Cart     *cartuc.ViewModel
	Search   *search.Service
	Checkout *checkout.Service
	Bus      *event.Bus
	Out      io.Writer
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		if err := a.Auth.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "signed out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "browse":
		return a.browse(ctx, rest)
	case "show":
		return a.show(ctx, rest)
	case "search":
		return a.search(ctx, rest)
	case "cart":
		return a.cart(ctx, rest)
	case "checkout":
		return a.checkout(ctx, rest)
	case "order":
		return a.order(ctx, rest)
	case "receipt":
		return a.receipt(ctx, rest)
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.Out, `usage:
  login <email> <password>
  register <username> <email> <password>
  logout | whoami
  browse <resource> [-brand B] [-category C] [-badge X] [-search Q] [-ordering F] [-page N] [-page-size N]
  show <resource> <id>
  search <query>
  cart [add <product-id> [qty] | inc <product-id> | dec <product-id> | rm <product-id>]
  checkout -name N -phone P -address A -city C -country K [-pay cod|mpesa|card]
  order <id> | receipt <id>`)
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("login needs <email> <password>")
	}
	u, err := a.Auth.Login(ctx, authn.LoginInput{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	if u != nil {
		fmt.Fprintf(a.Out, "signed in as %s\n", u.Username)
	}
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("register needs <username> <email> <password>")
	}
	u, err := a.Auth.Register(ctx, authn.RegisterInput{Username: args[0], Email: args[1], Password: args[2]})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "registered %s, now sign in\n", u.Username)
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	// Cached profile first for instant output, then server confirmation.
	if cached := a.Auth.CachedUser(); cached != nil {
		fmt.Fprintf(a.Out, "%s <%s> (cached)\n", cached.Username, cached.Email)
	}
	u, err := a.Auth.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s <%s>\n", u.Username, u.Email)
	return nil
}

func (a *App) resource(name string) (cataloguc.Resource, bool) {
	byName := map[string]cataloguc.Resource{
		"products":           a.Catalog.Products,
		"tablets":            a.Catalog.Tablets,
		"reallaptops":        a.Catalog.Reallaptops,
		"smartphones":        a.Catalog.Smartphones,
		"storages":           a.Catalog.Storages,
		"audio":              a.Catalog.Audio,
		"accessories":        a.Catalog.Accessories,
		"televisions":        a.Catalog.Televisions,
		"mkopa":              a.Catalog.Mkopa,
		"latest-offers":      a.Catalog.LatestOffers,
		"budget-smartphones": a.Catalog.BudgetSmartphones,
		"dial-phones":        a.Catalog.DialPhones,
		"new-iphones":        a.Catalog.NewIphones,
		"heroes":             a.Catalog.Heroes,
	}
	r, ok := byName[name]
	return r, ok
}

// clean maps the "All" picker sentinel to the canonical zero value.
func clean(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), noFilter) {
		return ""
	}
	return v
}

func (a *App) browse(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("browse needs a resource name")
	}
	res, ok := a.resource(args[0])
	if !ok {
		return fmt.Errorf("unknown resource %q", args[0])
	}

	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	var f cataloguc.Filter
	fs.StringVar(&f.Brand, "brand", "", "brand filter")
	fs.StringVar(&f.Category, "category", "", "category filter")
	fs.StringVar(&f.Badge, "badge", "", "badge filter")
	fs.StringVar(&f.Label, "label", "", "label filter")
	fs.StringVar(&f.Panel, "panel", "", "panel type")
	fs.StringVar(&f.Resolution, "resolution", "", "resolution")
	fs.IntVar(&f.MinSize, "min-size", 0, "minimum screen size")
	fs.IntVar(&f.MaxSize, "max-size", 0, "maximum screen size")
	fs.StringVar(&f.Search, "search", "", "search text")
	fs.StringVar(&f.Ordering, "ordering", "", "ordering field, '-' prefix for descending")
	fs.IntVar(&f.Page, "page", 0, "page number")
	fs.IntVar(&f.PageSize, "page-size", 0, "page size")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	f.Brand = clean(f.Brand)
	f.Category = clean(f.Category)
	f.Badge = clean(f.Badge)
	f.Label = clean(f.Label)

	page, err := res.List(ctx, f)
	if err != nil {
		return err
	}
	a.printItems(page.Results)
	if page.Count > len(page.Results) {
		fmt.Fprintf(a.Out, "(%d of %d)\n", len(page.Results), page.Count)
	}
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("show needs <resource> <id>")
	}
	res, ok := a.resource(args[0])
	if !ok {
		return fmt.Errorf("unknown resource %q", args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad id %q", args[1])
	}
	item, err := res.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "#%d %s\n", item.ID, item.Name)
	if item.Brand != "" {
		fmt.Fprintf(a.Out, "  brand: %s\n", item.Brand)
	}
	if item.PriceDisplay != "" {
		fmt.Fprintf(a.Out, "  price: %s\n", item.PriceDisplay)
	} else if !item.Price.IsZero() {
		fmt.Fprintf(a.Out, "  price: Ksh %s\n", item.Price.StringFixed(2))
	}
	if item.SpecsText != "" {
		fmt.Fprintf(a.Out, "  specs: %s\n", item.SpecsText)
	}
	if item.Purchasable() {
		fmt.Fprintf(a.Out, "  add to cart with: cart add %d\n", *item.ProductID)
	}
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("search needs a query")
	}
	results, err := a.Search.All(ctx, strings.Join(args, " "), 8)
	if err != nil {
		return err
	}
	for _, name := range search.Names() {
		items := results[name]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(a.Out, "%s:\n", name)
		a.printItems(items)
	}
	return nil
}

func (a *App) cart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if err := a.Cart.Refresh(ctx); err != nil {
			return err
		}
		snap := a.Cart.Snapshot()
		if len(snap.Items) == 0 {
			fmt.Fprintln(a.Out, "cart is empty")
			return nil
		}
		for _, l := range snap.Items {
			fmt.Fprintf(a.Out, "%3d x %-30s Ksh %s\n", l.Quantity, l.Product.Name, l.Product.Price.StringFixed(2))
		}
		fmt.Fprintf(a.Out, "subtotal: Ksh %s\n", snap.Subtotal().StringFixed(2))
		return nil
	}

	op := args[0]
	if len(args) < 2 {
		return fmt.Errorf("cart %s needs a product id", op)
	}
	productID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad product id %q", args[1])
	}

	switch op {
	case "add":
		qty := int64(1)
		if len(args) > 2 {
			qty, err = strconv.ParseInt(args[2], 10, 64)
			if err != nil || qty < 1 {
				return fmt.Errorf("bad quantity %q", args[2])
			}
		}
		return a.Cart.Add(ctx, productID, qty)
	case "inc":
		return a.Cart.Increment(ctx, productID)
	case "dec":
		return a.Cart.Decrement(ctx, productID)
	case "rm":
		return a.Cart.Remove(ctx, productID)
	default:
		return fmt.Errorf("unknown cart operation %q", op)
	}
}

func (a *App) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(a.Out)
	var in checkout.Input
	var pay string
	fs.StringVar(&in.Shipping.FullName, "name", "", "full name")
	fs.StringVar(&in.Shipping.Phone, "phone", "", "phone number")
	fs.StringVar(&in.Shipping.Address1, "address", "", "address line 1")
	fs.StringVar(&in.Shipping.Address2, "address2", "", "address line 2")
	fs.StringVar(&in.Shipping.City, "city", "", "city")
	fs.StringVar(&in.Shipping.Country, "country", "", "country")
	fs.StringVar(&in.Billing.NameOnCard, "card-name", "", "name on card")
	fs.StringVar(&in.Billing.TaxID, "tax-id", "", "tax id")
	fs.StringVar(&pay, "pay", "cod", "payment method: cod, mpesa or card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.PaymentMethod = parsePayment(pay)

	totals, err := a.Checkout.Validate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "total Ksh %s (shipping Ksh %s)\n", totals.Total.StringFixed(2), totals.ShippingFee.StringFixed(2))

	placed, err := a.Checkout.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "order #%d placed, status %s, total Ksh %s\n", placed.ID, placed.Status, placed.Total.StringFixed(2))

	// The server cleared the cart; resync the local snapshot and badge.
	if err := a.Cart.Refresh(ctx); err != nil {
		return err
	}
	return nil
}

func (a *App) order(ctx context.Context, args []string) error {
	id, err := argID(args, "order")
	if err != nil {
		return err
	}
	o, err := a.Checkout.Order(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "order #%d %s, total Ksh %s, paid via %s\n", o.ID, o.Status, o.Total.StringFixed(2), o.PaymentMethod)
	for _, it := range o.Items {
		fmt.Fprintf(a.Out, "%3d x %-30s Ksh %s\n", it.Quantity, it.Name, it.LineTotal.StringFixed(2))
	}
	return nil
}

func (a *App) receipt(ctx context.Context, args []string) error {
	id, err := argID(args, "receipt")
	if err != nil {
		return err
	}
	st, err := a.Checkout.ReceiptStatus(ctx, id)
	if err != nil {
		return err
	}
	if !st.Ready {
		fmt.Fprintln(a.Out, "receipt not ready yet")
		return nil
	}
	url := st.DownloadURL
	if url == "" {
		url = a.Checkout.ReceiptDownloadURL(id)
	}
	fmt.Fprintf(a.Out, "receipt ready: %s\n", url)
	return nil
}

func (a *App) printItems(items []domcatalog.Item) {
	for _, it := range items {
		price := it.PriceDisplay
		if price == "" && !it.Price.IsZero() {
			price = "Ksh " + it.Price.StringFixed(2)
		}
		fmt.Fprintf(a.Out, "#%-5d %-35s %-12s %s\n", it.ID, it.Name, it.Brand, price)
	}
}

func parsePayment(s string) domorder.PaymentMethod {
	return domorder.PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
}

func argID(args []string, cmd string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s needs an order id", cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad order id %q", args[0])
	}
	return id, nil
}
