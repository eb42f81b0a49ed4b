package profile

import (
	"context"
	"sync"
)

var _ blobStore = &blobStoreMock{}

type blobStoreMock struct {
	KeyFromURLFunc func(url string) (string, bool)
	PublicURLFunc  func(key string) string
	RemoveFunc     func(ctx context.Context, key string) error
	UploadFunc     func(ctx context.Context, key string, contentType string, data []byte) error

	calls struct {
		KeyFromURL []struct {
			URL string
		}
		PublicURL []struct {
			Key string
		}
		Remove []struct {
			Key string
		}
		Upload []struct {
			Key         string
			ContentType string
			Data        []byte
		}
	}
	lockKeyFromURL sync.RWMutex
	lockPublicURL  sync.RWMutex
	lockRemove     sync.RWMutex
	lockUpload     sync.RWMutex
}

func (mock *blobStoreMock) KeyFromURL(url string) (string, bool) {
	if mock.KeyFromURLFunc == nil {
		panic("blobStoreMock.KeyFromURLFunc: method is nil but blobStore.KeyFromURL was just called")
	}
	callInfo := struct {
		URL string
	}{URL: url}
	mock.lockKeyFromURL.Lock()
	mock.calls.KeyFromURL = append(mock.calls.KeyFromURL, callInfo)
	mock.lockKeyFromURL.Unlock()
	return mock.KeyFromURLFunc(url)
}

func (mock *blobStoreMock) KeyFromURLCalls() []struct {
	URL string
} {
	mock.lockKeyFromURL.RLock()
	calls := mock.calls.KeyFromURL
	mock.lockKeyFromURL.RUnlock()
	return calls
}

func (mock *blobStoreMock) PublicURL(key string) string {
	if mock.PublicURLFunc == nil {
		panic("blobStoreMock.PublicURLFunc: method is nil but blobStore.PublicURL was just called")
	}
	callInfo := struct {
		Key string
	}{Key: key}
	mock.lockPublicURL.Lock()
	mock.calls.PublicURL = append(mock.calls.PublicURL, callInfo)
	mock.lockPublicURL.Unlock()
	return mock.PublicURLFunc(key)
}

func (mock *blobStoreMock) PublicURLCalls() []struct {
	Key string
} {
	mock.lockPublicURL.RLock()
	calls := mock.calls.PublicURL
	mock.lockPublicURL.RUnlock()
	return calls
}

func (mock *blobStoreMock) Remove(ctx context.Context, key string) error {
	if mock.RemoveFunc == nil {
		panic("blobStoreMock.RemoveFunc: method is nil but blobStore.Remove was just called")
	}
	callInfo := struct {
		Key string
	}{Key: key}
	mock.lockRemove.Lock()
	mock.calls.Remove = append(mock.calls.Remove, callInfo)
	mock.lockRemove.Unlock()
	return mock.RemoveFunc(ctx, key)
}

func (mock *blobStoreMock) RemoveCalls() []struct {
	Key string
} {
	mock.lockRemove.RLock()
	calls := mock.calls.Remove
	mock.lockRemove.RUnlock()
	return calls
}

func (mock *blobStoreMock) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	if mock.UploadFunc == nil {
		panic("blobStoreMock.UploadFunc: method is nil but blobStore.Upload was just called")
	}
	callInfo := struct {
		Key         string
		ContentType string
		Data        []byte
	}{Key: key, ContentType: contentType, Data: data}
	mock.lockUpload.Lock()
	mock.calls.Upload = append(mock.calls.Upload, callInfo)
	mock.lockUpload.Unlock()
	return mock.UploadFunc(ctx, key, contentType, data)
}

func (mock *blobStoreMock) UploadCalls() []struct {
	Key         string
	ContentType string
	Data        []byte
} {
	mock.lockUpload.RLock()
	calls := mock.calls.Upload
	mock.lockUpload.RUnlock()
	return calls
}
