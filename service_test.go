package goblin_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	goblin "github.com/NickBlow/upload-goblin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SpyFileStore struct {
	mock.Mock
}

func (s *SpyFileStore) Put(ctx context.Context, id string, content io.Reader, obj goblin.PutObject) (goblin.ObjectInfo, error) {
	args := s.Called(ctx, id, content, obj)
	return args.Get(0).(goblin.ObjectInfo), args.Error(1)
}

func (s *SpyFileStore) Get(ctx context.Context, id string) (goblin.ObjectInfo, io.ReadSeekCloser, error) {
	args := s.Called(ctx, id)
	if args.Get(1) == nil {
		return args.Get(0).(goblin.ObjectInfo), nil, args.Error(2)
	}
	return args.Get(0).(goblin.ObjectInfo), args.Get(1).(io.ReadSeekCloser), args.Error(2)
}

func (s *SpyFileStore) Delete(ctx context.Context, id string) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

type readSeekNopCloser struct {
	io.ReadSeeker
}

func (readSeekNopCloser) Close() error { return nil }

func newGatewayService(t *testing.T) (*goblin.GatewayService, *SpyFileStore) {
	t.Helper()
	store := new(SpyFileStore)
	s, err := goblin.NewGatewayService(store)
	require.NoError(t, err, "new gateway service")
	return s, store
}

func TestNewGatewayService_NilStore(t *testing.T) {
	_, err := goblin.NewGatewayService(nil)
	assert.ErrorIs(t, err, goblin.ErrInvalidInput)
}

func TestGatewayService_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()
		content := bytes.NewBufferString("hello")

		obj := goblin.PutObject{
			ContentType: "text/plain",
			Metadata:    map[string]string{"User-Id": "u1"},
		}
		want := goblin.ObjectInfo{FileID: "notes/hello.txt", ContentType: "text/plain", SizeBytes: 5}
		store.On("Put", ctx, "notes/hello.txt", content, obj).Return(want, nil)

		got, err := service.Upload(ctx, "notes/hello.txt", obj, content)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertExpectations(t)
	})

	t.Run("defaults content type", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()
		content := strings.NewReader("data")

		want := goblin.PutObject{ContentType: "application/octet-stream"}
		store.On("Put", ctx, "blob", content, want).Return(goblin.ObjectInfo{}, nil)

		_, err := service.Upload(ctx, "blob", goblin.PutObject{}, content)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("invalid file id", func(t *testing.T) {
		service, store := newGatewayService(t)

		_, err := service.Upload(context.Background(), "../escape", goblin.PutObject{}, strings.NewReader(""))
		assert.ErrorIs(t, err, goblin.ErrInvalidInput)
		store.AssertNotCalled(t, "Put")
	})

	t.Run("store error propagates", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()
		content := strings.NewReader("data")

		storeErr := &goblin.StoreError{Code: 503, Message: "backend unavailable"}
		store.On("Put", ctx, "a.txt", content, mock.Anything).Return(goblin.ObjectInfo{}, storeErr)

		_, err := service.Upload(ctx, "a.txt", goblin.PutObject{ContentType: "text/plain"}, content)
		var gotErr *goblin.StoreError
		require.ErrorAs(t, err, &gotErr)
		assert.Equal(t, 503, gotErr.Code)
	})

	t.Run("cancelled context", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.Upload(ctx, "a.txt", goblin.PutObject{}, strings.NewReader(""))
		assert.ErrorIs(t, err, context.Canceled)
		store.AssertNotCalled(t, "Put")
	})
}

func TestGatewayService_Download(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()

		want := goblin.ObjectInfo{FileID: "a.txt", ContentType: "text/plain", SizeBytes: 5}
		content := readSeekNopCloser{strings.NewReader("hello")}
		store.On("Get", ctx, "a.txt").Return(want, content, nil)

		info, rc, err := service.Download(ctx, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, want, info)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("not found", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()

		store.On("Get", ctx, "missing.txt").Return(goblin.ObjectInfo{}, nil, goblin.ErrNotFound)

		_, _, err := service.Download(ctx, "missing.txt")
		assert.ErrorIs(t, err, goblin.ErrNotFound)
	})

	t.Run("invalid file id", func(t *testing.T) {
		service, store := newGatewayService(t)

		_, _, err := service.Download(context.Background(), "a//b")
		assert.ErrorIs(t, err, goblin.ErrInvalidInput)
		store.AssertNotCalled(t, "Get")
	})
}

func TestGatewayService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()

		store.On("Delete", ctx, "a.txt").Return(nil)

		err := service.Delete(ctx, "a.txt")
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		service, store := newGatewayService(t)
		ctx := context.Background()

		store.On("Delete", ctx, "missing.txt").Return(goblin.ErrNotFound)

		err := service.Delete(ctx, "missing.txt")
		assert.ErrorIs(t, err, goblin.ErrNotFound)
	})

	t.Run("invalid file id", func(t *testing.T) {
		service, store := newGatewayService(t)

		err := service.Delete(context.Background(), "")
		assert.ErrorIs(t, err, goblin.ErrInvalidInput)
		store.AssertNotCalled(t, "Delete")
	})
}

func TestStoreError_Error(t *testing.T) {
	err := &goblin.StoreError{Code: 502, Message: "bad gateway"}
	assert.Equal(t, "storage error 502: bad gateway", err.Error())
	assert.False(t, errors.Is(err, goblin.ErrNotFound))
}
