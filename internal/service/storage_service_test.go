package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	cfg := newLocalStorageConfig(t)
	storage := NewStorageService(cfg)

	// 非 minio/oss 配置回落到本地存储
	_, ok := storage.Provider.(*LocalStorageProvider)
	require.True(t, ok)

	ctx := context.Background()
	url, err := storage.Upload(ctx, "avatars/1/pic.png", strings.NewReader("fake-image"), 10, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/1/pic.png", url)

	data, err := os.ReadFile(filepath.Join(cfg.Storage.LocalPath, "avatars/1/pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "fake-image", string(data))

	require.NoError(t, storage.Delete(ctx, "avatars/1/pic.png"))
	_, err = os.Stat(filepath.Join(cfg.Storage.LocalPath, "avatars/1/pic.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageUploadFile(t *testing.T) {
	cfg := newLocalStorageConfig(t)
	storage := NewStorageService(cfg)

	src := filepath.Join(t.TempDir(), "video.mp4")
	require.NoError(t, os.WriteFile(src, []byte("fake-video"), 0644))

	url, err := storage.UploadFile(context.Background(), "videos/py/intro.mp4", src, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/videos/py/intro.mp4", url)

	data, err := os.ReadFile(filepath.Join(cfg.Storage.LocalPath, "videos/py/intro.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "fake-video", string(data))
}
