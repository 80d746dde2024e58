package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/auth"
	"github.com/billboardhub/billboard-market/internal/config"
	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/events"
	"github.com/billboardhub/billboard-market/internal/repository/memory"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}}
}

const fakeImageBase = "https://cdn.test/"

func (f *fakeImages) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return fakeImageBase + key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeImageBase) {
		return "", false
	}
	return strings.TrimPrefix(url, fakeImageBase), true
}

type fakeGuard struct {
	failures map[string]int
	locked   map[string]bool
}

func (g *fakeGuard) Locked(_ context.Context, kind domain.PrincipalKind, id string) bool {
	return g.locked[string(kind)+id]
}

func (g *fakeGuard) RecordFailure(_ context.Context, kind domain.PrincipalKind, id string) {
	g.failures[string(kind)+id]++
}

func (g *fakeGuard) RecordSuccess(_ context.Context, kind domain.PrincipalKind, id string) {
	delete(g.failures, string(kind)+id)
}

type harness struct {
	admins     *AdminService
	users      *UserService
	locations  *LocationService
	products   *ProductService
	orders     *OrderService
	adminSess  *auth.Sessions
	userSess   *auth.Sessions
	images     *fakeImages
	guard      *fakeGuard
	dispatched []events.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	hasher := auth.NewPasswordHasher(config.AuthConfig{PasswordHasher: config.HasherBcrypt, BcryptCost: 4})
	tokens := auth.NewTokenManager("service-secret", time.Hour)

	adminRepo := memory.NewAdminRepository(hasher)
	userRepo := memory.NewUserRepository(hasher)
	productRepo := memory.NewProductRepository()

	h := &harness{
		adminSess: auth.NewAdminSessions(tokens, adminRepo),
		userSess:  auth.NewUserSessions(tokens, userRepo),
		images:    newFakeImages(),
		guard:     &fakeGuard{failures: map[string]int{}, locked: map[string]bool{}},
	}
	deps := AuthDependencies{Hasher: hasher, Guard: h.guard, Logger: zap.NewNop()}

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop(), nil)
	for _, et := range []events.EventType{events.EventOrderPlaced, events.EventOrderStatusChanged, events.EventQuoteCreated, events.EventQuoteUpdated} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			h.dispatched = append(h.dispatched, e)
			return nil
		})
	}

	h.admins = NewAdminService(adminRepo, h.adminSess, deps)
	h.users = NewUserService(userRepo, h.userSess, h.images, deps)
	h.locations = NewLocationService(memory.NewLocationRepository(), nil)
	h.products = NewProductService(productRepo, h.locations, h.images, nil)
	h.orders = NewOrderService(memory.NewOrderRepository(), memory.NewQuoteRepository(), productRepo, userRepo, dispatcher, nil)
	return h
}

func (h *harness) signupAdmin(t *testing.T) *domain.Admin {
	t.Helper()
	admin, err := h.admins.Signup(context.Background(), AdminSignupInput{
		FirstName: "Ada", LastName: "Obi", Username: "ada", Email: "Ada@Example.com", Password: "pw-admin",
	})
	require.NoError(t, err)
	return admin
}

func (h *harness) signupUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := h.users.Signup(context.Background(), UserSignupInput{
		FullName: "Kemi Ade", Email: email, PhoneNo: "0800", CompanyName: "Acme", Password: "pw-user",
	})
	require.NoError(t, err)
	return user
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, code), "want %s, got %v", code, err)
}

func TestAdminService_SignupLoginRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.signupAdmin(t)
	assert.Equal(t, "ada@example.com", admin.Email)
	assert.NotEqual(t, "pw-admin", admin.PasswordHash)

	got, token, err := h.admins.Login(ctx, " ADA@example.com ", "pw-admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	principal, err := h.adminSess.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, principal.ID)
}

func TestAdminService_SignupConflicts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signupAdmin(t)

	_, err := h.admins.Signup(ctx, AdminSignupInput{FirstName: "B", LastName: "C", Username: "other", Email: "ada@example.com", Password: "x"})
	assertCode(t, err, apperrors.CodeConflict)

	_, err = h.admins.Signup(ctx, AdminSignupInput{FirstName: "B", LastName: "C", Username: "ada", Email: "b@example.com", Password: "x"})
	assertCode(t, err, apperrors.CodeConflict)

	_, err = h.admins.Signup(ctx, AdminSignupInput{Username: "x", Email: "x@example.com", Password: "x"})
	assertCode(t, err, apperrors.CodeBadRequest)
}

func TestLogin_SameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signupUser(t, "kemi@example.com")

	_, _, unknown := h.users.Login(ctx, "nobody@example.com", "pw-user")
	_, _, wrong := h.users.Login(ctx, "kemi@example.com", "nope")

	for _, err := range []error{unknown, wrong} {
		assertCode(t, err, apperrors.CodeNotFound)
		assert.Equal(t, CredentialsMessage, apperrors.ToDomainError(err).Message)
	}
	assert.Equal(t, 1, h.guard.failures["userkemi@example.com"])
	assert.Equal(t, 1, h.guard.failures["usernobody@example.com"])
}

func TestLogin_LockedAccountIsRefused(t *testing.T) {
	h := newHarness(t)
	h.signupUser(t, "kemi@example.com")
	h.guard.locked["userkemi@example.com"] = true

	_, _, err := h.users.Login(context.Background(), "kemi@example.com", "pw-user")
	assertCode(t, err, apperrors.CodeTooManyRequests)
}

func TestSessions_LogoutAndPasswordChangeRevoke(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.signupUser(t, "kemi@example.com")

	_, first, err := h.users.Login(ctx, "kemi@example.com", "pw-user")
	require.NoError(t, err)
	_, second, err := h.users.Login(ctx, "kemi@example.com", "pw-user")
	require.NoError(t, err)

	p1, err := h.userSess.Validate(ctx, first)
	require.NoError(t, err)
	require.NoError(t, h.users.Logout(ctx, p1))
	_, err = h.userSess.Validate(ctx, first)
	assertCode(t, err, apperrors.CodeUnauthorized)
	_, err = h.userSess.Validate(ctx, second)
	require.NoError(t, err)

	require.NoError(t, h.users.UpdatePassword(ctx, user.ID, "new-pw"))
	_, err = h.userSess.Validate(ctx, second)
	assertCode(t, err, apperrors.CodeUnauthorized)

	_, _, err = h.users.Login(ctx, "kemi@example.com", "pw-user")
	assertCode(t, err, apperrors.CodeNotFound)
	_, _, err = h.users.Login(ctx, "kemi@example.com", "new-pw")
	require.NoError(t, err)
}

func TestUserService_DeleteHidesAccountAndFreesEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.signupUser(t, "kemi@example.com")
	_, token, err := h.users.Login(ctx, "kemi@example.com", "pw-user")
	require.NoError(t, err)

	require.NoError(t, h.users.Delete(ctx, user.ID))
	_, err = h.userSess.Validate(ctx, token)
	assertCode(t, err, apperrors.CodeUnauthorized)
	_, err = h.users.Profile(ctx, user.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	again := h.signupUser(t, "kemi@example.com")
	assert.NotEqual(t, user.ID, again.ID)
}

func TestUserService_UploadAvatarReplacesPrevious(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.signupUser(t, "kemi@example.com")

	upload := func(name string) *domain.User {
		body := []byte("png-bytes")
		u, err := h.users.UploadAvatar(ctx, user.ID, Upload{Filename: name, ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)})
		require.NoError(t, err)
		return u
	}
	first := upload("me.PNG")
	assert.True(t, strings.HasPrefix(first.Avatar, fakeImageBase+"avatars/"+user.ID+"/"))
	assert.True(t, strings.HasSuffix(first.Avatar, ".png"))

	second := upload("me2.png")
	assert.NotEqual(t, first.Avatar, second.Avatar)
	require.Len(t, h.images.deleted, 1)
	assert.Equal(t, strings.TrimPrefix(first.Avatar, fakeImageBase), h.images.deleted[0])

	_, err := h.users.UploadAvatar(ctx, user.ID, Upload{Filename: "a.txt", ContentType: "text/plain", Size: 1, Body: strings.NewReader("x")})
	assertCode(t, err, apperrors.CodeBadRequest)
	_, err = h.users.UploadAvatar(ctx, user.ID, Upload{Filename: "a.png", ContentType: "image/png", Size: MaxImageBytes + 1, Body: strings.NewReader("x")})
	assertCode(t, err, apperrors.CodeBadRequest)
}

func TestUserService_UploadAvatarWithoutStorage(t *testing.T) {
	h := newHarness(t)
	user := h.signupUser(t, "kemi@example.com")
	h.users.images = nil

	_, err := h.users.UploadAvatar(context.Background(), user.ID, Upload{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")})
	assertCode(t, err, apperrors.CodeBadRequest)
	assert.Equal(t, uploadsDisabled, apperrors.ToDomainError(err).Message)
}

func TestLocationService_DirectoryRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	state, err := h.locations.CreateState(ctx, "owner", "  Lagos ")
	require.NoError(t, err)
	assert.Equal(t, "lagos", state.Name)

	_, err = h.locations.CreateState(ctx, "owner", "LAGOS")
	assertCode(t, err, apperrors.CodeConflict)

	_, err = h.locations.CreateArea(ctx, "Oyo", "Bodija")
	assertCode(t, err, apperrors.CodeNotFound)

	area, err := h.locations.CreateArea(ctx, "lagos", "Ikeja")
	require.NoError(t, err)
	assert.Equal(t, state.ID, area.StateID)

	_, err = h.locations.CreateArea(ctx, "Lagos", " ikeja ")
	assertCode(t, err, apperrors.CodeConflict)

	_, err = h.locations.CreateState(ctx, "owner", "Oyo")
	require.NoError(t, err)
	oyoIkeja, err := h.locations.CreateArea(ctx, "Oyo", "Ikeja")
	require.NoError(t, err)
	assert.NotEqual(t, area.ID, oyoIkeja.ID)

	_, err = h.locations.CreateState(ctx, "owner", "Abuja")
	require.NoError(t, err)
	_, err = h.locations.GetArea(ctx, "ikeja", "abuja")
	assertCode(t, err, apperrors.CodeNotFound)

	got, err := h.locations.GetArea(ctx, "IKEJA", "lagos")
	require.NoError(t, err)
	assert.Equal(t, area.ID, got.ID)

	_, err = h.locations.CreateState(ctx, "owner", "   ")
	assertCode(t, err, apperrors.CodeBadRequest)
}

func TestLocationService_Paging(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 1; i <= 25; i++ {
		_, err := h.locations.CreateState(ctx, "owner", fmt.Sprintf("state-%02d", i))
		require.NoError(t, err)
	}

	page, err := h.locations.ListStates(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)

	empty, err := h.locations.ListStates(ctx, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	huge, err := h.locations.ListStates(ctx, math.MaxInt, 10)
	require.NoError(t, err)
	assert.Empty(t, huge.Items)
	assert.Equal(t, 3, huge.TotalPages)
	assert.Equal(t, math.MaxInt, huge.Page)

	areas, err := h.locations.ListAreasInState(ctx, "state-01", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, areas.Items)
	assert.Equal(t, 1, areas.Page)

	_, err = h.locations.ListAreasInState(ctx, "nowhere", 1, 10)
	assertCode(t, err, apperrors.CodeNotFound)
}

func seedProduct(t *testing.T, h *harness, state, area string) *domain.Product {
	t.Helper()
	ctx := context.Background()
	if _, err := h.locations.GetState(ctx, state); err != nil {
		_, err = h.locations.CreateState(ctx, "owner", state)
		require.NoError(t, err)
	}
	if _, err := h.locations.GetArea(ctx, area, state); err != nil {
		_, err = h.locations.CreateArea(ctx, state, area)
		require.NoError(t, err)
	}
	product, err := h.products.Create(ctx, "owner", ProductInput{
		Title: "Ikeja Unipole", Category: "Unipole", Description: "Facing traffic",
		Size: "40x10", Address: "Obafemi Awolowo Way", State: state, Area: area,
	})
	require.NoError(t, err)
	return product
}

func TestProductService_CreateAnchorsToArea(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	product := seedProduct(t, h, "Lagos", "Ikeja")
	assert.True(t, product.Availability)

	state, err := h.locations.GetState(ctx, "lagos")
	require.NoError(t, err)
	assert.Equal(t, state.ID, product.StateID)

	_, err = h.products.Create(ctx, "owner", ProductInput{
		Title: "t", Category: "Unipole", Description: "d", Size: "s", Address: "a", State: "Lagos", Area: "Bodija",
	})
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = h.products.Create(ctx, "owner", ProductInput{
		Title: "t", Category: "Hologram", Description: "d", Size: "s", Address: "a", State: "Lagos", Area: "Ikeja",
	})
	assertCode(t, err, apperrors.CodeBadRequest)
}

func TestProductService_UpdateAndListings(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	moved := seedProduct(t, h, "Lagos", "Ikeja")
	seedProduct(t, h, "Lagos", "Lekki")
	seedProduct(t, h, "Oyo", "Bodija")

	title := "Renamed"
	_, err := h.products.Update(ctx, moved.ID, ProductUpdate{State: strPtr("Oyo")})
	assertCode(t, err, apperrors.CodeBadRequest)

	updated, err := h.products.Update(ctx, moved.ID, ProductUpdate{Title: &title, State: strPtr("Oyo"), Area: strPtr("Bodija")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	oyo, err := h.products.ListByState(ctx, "oyo", 1, 10)
	require.NoError(t, err)
	assert.Len(t, oyo.Items, 2)

	lagos, err := h.products.ListByArea(ctx, "lagos", "lekki", 1, 10)
	require.NoError(t, err)
	assert.Len(t, lagos.Items, 1)

	all, err := h.products.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalPages)
	assert.Len(t, all.Items, 2)

	require.NoError(t, h.products.Delete(ctx, moved.ID))
	_, err = h.products.Get(ctx, moved.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestProductService_UploadImage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	product := seedProduct(t, h, "Lagos", "Ikeja")

	updated, err := h.products.UploadImage(ctx, product.ID, Upload{Filename: "board.jpg", ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")})
	require.NoError(t, err)
	require.NotNil(t, updated.Image)
	assert.Equal(t, "board.jpg", updated.Image.Name)
	assert.Equal(t, fakeImageBase+updated.Image.Key, updated.Image.URL)

	_, err = h.products.UploadImage(ctx, product.ID, Upload{Filename: "b.gif", ContentType: "image/gif", Size: 3, Body: strings.NewReader("gif")})
	require.NoError(t, err)
	assert.Equal(t, []string{updated.Image.Key}, h.images.deleted)

	_, err = h.products.UploadImage(ctx, product.ID, Upload{Filename: "b.gif", ContentType: "image/gif"})
	assertCode(t, err, apperrors.CodeBadRequest)
}

func TestOrderService_PlaceOrderAndQuote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.signupUser(t, "kemi@example.com")
	other := h.signupUser(t, "tolu@example.com")
	product := seedProduct(t, h, "Lagos", "Ikeja")

	_, err := h.orders.Create(ctx, user.ID, product.ID, "2024-05-01")
	assertCode(t, err, apperrors.CodeBadRequest)

	order, err := h.orders.Create(ctx, user.ID, product.ID, "01/05/2024")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Len(t, order.Invoice, 16)
	assert.Equal(t, "Kemi Ade", order.User)
	assert.Equal(t, "kemi@example.com 0800", order.UserDetails)
	assert.Equal(t, product.Title, order.Product)
	assert.Equal(t, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), order.DateRequested)

	_, err = h.orders.GetForUser(ctx, other.ID, order.ID)
	assertCode(t, err, apperrors.CodeNotFound)
	mine, err := h.orders.ListForUser(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)
	theirs, err := h.orders.ListForUser(ctx, other.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, theirs.Items)

	price := 150000.0
	_, err = h.orders.CreateQuote(ctx, "admin", order.ID, QuoteInput{Title: "Q", Price: &price, AvailableFrom: "10/05/2024", AvailableTo: "01/05/2024"})
	assertCode(t, err, apperrors.CodeBadRequest)

	quote, err := h.orders.CreateQuote(ctx, "admin", order.ID, QuoteInput{Title: "Q", Price: &price, AvailableFrom: "01/05/2024", AvailableTo: "31/05/2024"})
	require.NoError(t, err)
	assert.Equal(t, order.Invoice, quote.Invoice)

	newPrice := 120000.0
	updated, err := h.orders.UpdateQuote(ctx, "admin", quote.ID, QuoteChanges{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)
	assert.Equal(t, "Q", updated.Title)

	_, err = h.orders.UpdateQuote(ctx, "admin", quote.ID, QuoteChanges{AvailableTo: strPtr("01/04/2024")})
	assertCode(t, err, apperrors.CodeBadRequest)

	fulfilled, err := h.orders.UpdateStatus(ctx, "admin", order.ID, domain.OrderStatusFulfilled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFulfilled, fulfilled.Status)

	var types []events.EventType
	for _, e := range h.dispatched {
		types = append(types, e.Type)
		assert.Equal(t, order.ID, e.OrderID)
	}
	assert.Equal(t, []events.EventType{
		events.EventOrderPlaced, events.EventQuoteCreated, events.EventQuoteUpdated, events.EventOrderStatusChanged,
	}, types)
}

func TestOrderService_UnavailableProduct(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.signupUser(t, "kemi@example.com")
	product := seedProduct(t, h, "Lagos", "Ikeja")
	off := false
	_, err := h.products.Update(ctx, product.ID, ProductUpdate{Availability: &off})
	require.NoError(t, err)

	_, err = h.orders.Create(ctx, user.ID, product.ID, "01/05/2024")
	assertCode(t, err, apperrors.CodeBadRequest)

	_, err = h.orders.Create(ctx, user.ID, "missing", "01/05/2024")
	assertCode(t, err, apperrors.CodeNotFound)
}

func strPtr(s string) *string { return &s }
