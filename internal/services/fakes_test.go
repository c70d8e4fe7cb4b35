package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"niuniq/internal/entities"
	"niuniq/internal/infrastructure/bd"
	"niuniq/internal/repositories"
	apperrors "niuniq/pkg/errors"
	"niuniq/pkg/eventbus"
	"niuniq/pkg/query"
)

type fakeUserRepo struct {
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*entities.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entities.User) (*entities.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, apperrors.ErrDuplicate
		}
	}
	c := *u
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	r.nextID++
	r.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entities.User) (*entities.User, error) {
	if _, ok := r.users[u.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *u
	r.users[u.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeUserRepo) UpdatePhone(ctx context.Context, id uint64, phone string) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u.NoTelepon = phone
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uint64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (r *fakeUserRepo) SetHasCreatedStore(_ context.Context, _ pgx.Tx, id uint64, value bool) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.HasCreatedStore = value
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) RoleOf(_ context.Context, id uint64) (string, error) {
	u, ok := r.users[id]
	if !ok {
		return "", apperrors.ErrUserNotFound
	}
	return u.Role, nil
}

type fakeStoreRepo struct {
	stores   map[uint64]*entities.Store
	products *fakeProductRepo
	nextID   uint64
}

func newFakeStoreRepo(products *fakeProductRepo) *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[uint64]*entities.Store{}, products: products, nextID: 1}
}

func (r *fakeStoreRepo) Create(_ context.Context, _ pgx.Tx, s *entities.Store) (*entities.Store, error) {
	c := *s
	c.ID = r.nextID
	r.nextID++
	r.stores[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeStoreRepo) FindByID(ctx context.Context, id uint64) (*entities.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *s
	if r.products != nil {
		out.Products, _ = r.products.ListByStore(ctx, id)
	}
	return &out, nil
}

func (r *fakeStoreRepo) FindByUser(ctx context.Context, userID uint64) (*entities.Store, error) {
	stores, _ := r.ListByUser(ctx, userID)
	if len(stores) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &stores[0], nil
}

func (r *fakeStoreRepo) ListByUser(_ context.Context, userID uint64) ([]entities.Store, error) {
	out := []entities.Store{}
	for _, s := range r.stores {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeStoreRepo) Update(_ context.Context, _ pgx.Tx, s *entities.Store) (*entities.Store, error) {
	if _, ok := r.stores[s.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *s
	c.Products = nil
	r.stores[s.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeStoreRepo) UpdateName(_ context.Context, id uint64, name string) error {
	s, ok := r.stores[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.Name = name
	return nil
}

func (r *fakeStoreRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.stores[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.stores, id)
	if r.products != nil {
		for pid, p := range r.products.products {
			if p.StoreID == id {
				delete(r.products.products, pid)
			}
		}
	}
	return nil
}

func (r *fakeStoreRepo) CountByUser(ctx context.Context, _ pgx.Tx, userID uint64) (int64, error) {
	stores, _ := r.ListByUser(ctx, userID)
	return int64(len(stores)), nil
}

type fakeProductRepo struct {
	products map[uint64]*entities.Product
	nextID   uint64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint64]*entities.Product{}, nextID: 1}
}

func (r *fakeProductRepo) Create(_ context.Context, _ pgx.Tx, p *entities.Product) (*entities.Product, error) {
	c := *p
	c.ID = r.nextID
	r.nextID++
	r.products[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint64) (*entities.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakeProductRepo) FindByProductID(_ context.Context, productID string) (*entities.Product, error) {
	for _, p := range r.products {
		if p.ProductID == productID {
			out := *p
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeProductRepo) Update(_ context.Context, _ pgx.Tx, p *entities.Product) (*entities.Product, error) {
	if _, ok := r.products[p.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *p
	r.products[p.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeProductRepo) UpdateMedia(ctx context.Context, _ pgx.Tx, id uint64, photos []string, qr string) (*entities.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.Photos, p.QRCode = photos, qr
	return r.FindByID(ctx, id)
}

func (r *fakeProductRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.products[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) filter(keep func(*entities.Product) bool) []entities.Product {
	out := []entities.Product{}
	for _, p := range r.products {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProductRepo) ListByStore(_ context.Context, storeID uint64) ([]entities.Product, error) {
	return r.filter(func(p *entities.Product) bool { return p.StoreID == storeID }), nil
}

func (r *fakeProductRepo) ListByUser(_ context.Context, userID uint64) ([]entities.Product, error) {
	return r.filter(func(p *entities.Product) bool { return p.UserID == userID }), nil
}

// fakeListingRepo records the descriptors it receives and returns total rows.
type fakeListingRepo struct {
	total int64
	rows  []map[string]any
	seen  []query.Descriptor
}

func (r *fakeListingRepo) Count(_ context.Context, _ bd.Schema, desc query.Descriptor) (int64, error) {
	r.seen = append(r.seen, desc)
	return r.total, nil
}

func (r *fakeListingRepo) Find(_ context.Context, _ bd.Schema, desc query.Descriptor) ([]map[string]any, error) {
	r.seen = append(r.seen, desc)
	return r.rows, nil
}

type fakeCache struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, expires: map[string]time.Duration{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	default:
		c.values[key] = fmt.Sprint(v)
	}
	c.expires[key] = ttl
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires[key] = ttl
	_, ok := c.values[key]
	return ok, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeStorage struct {
	files   map[string][]byte
	deleted []string
	n       int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, r io.Reader, name, prefix string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.n++
	key := fmt.Sprintf("%s/%d-%s", prefix, s.n, name)
	s.files[key] = data
	return key, nil
}

func (s *fakeStorage) Delete(_ context.Context, keyOrURL string) error {
	s.deleted = append(s.deleted, keyOrURL)
	delete(s.files, strings.TrimPrefix(keyOrURL, "http://files/"))
	return nil
}

func (s *fakeStorage) URL(key string) string {
	return "http://files/" + key
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) SendPasswordResetEmail(_ context.Context, _ string, resetURL string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, resetURL)
	return nil
}

type fakeInvalidator struct {
	ids []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, productIDs ...string) {
	f.ids = append(f.ids, productIDs...)
}

type recordingPublisher struct {
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event eventbus.Event) {
	p.events = append(p.events, event)
}

type fakeQRCodes struct{}

func (fakeQRCodes) Create(_ context.Context, productID string) (string, error) {
	return "http://files/images/QRcodes/qrcode_" + productID + ".png", nil
}

// pngUploads builds n real multipart file headers holding small PNG images.
func pngUploads(t *testing.T, field string, n int) []*multipart.FileHeader {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for i := 0; i < n; i++ {
		part, err := w.CreateFormFile(field, fmt.Sprintf("photo_%d.png", i+1))
		require.NoError(t, err)
		_, err = part.Write(img.Bytes())
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}
