package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/apperror"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func newUploadService(t *testing.T, maxBytes int64) (UploadService, string) {
	dir := t.TempDir()
	return NewUploadService(UploadConfig{Dir: dir, MaxBytes: maxBytes, PublicURL: "/uploads/"}, nil, logger.Nop()), dir
}

func adminIdentity() policy.Identity {
	return policy.Identity{UserID: uuid.New(), Username: "admin", Roles: []string{model.RoleAdmin}}
}

func TestSaveProductImage_StoresPNG(t *testing.T) {
	svc, dir := newUploadService(t, 1024)

	res, err := svc.SaveProductImage(adminIdentity(), fileHeader(t, "menu.png", "image/png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, ".png", filepath.Ext(res.Filename))
	assert.Equal(t, "/uploads/"+res.Filename, res.URL)

	stored, err := os.ReadFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestSaveProductImage_Rejections(t *testing.T) {
	svc, dir := newUploadService(t, 64)

	_, err := svc.SaveProductImage(adminIdentity(), fileHeader(t, "notes.png", "image/png", []byte("just some text, not an image")))
	assert.True(t, errors.Is(err, ErrUnsupportedImage))

	_, err = svc.SaveProductImage(adminIdentity(), fileHeader(t, "menu.png", "text/html", pngHeader))
	assert.True(t, errors.Is(err, ErrUnsupportedImage))

	big := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	_, err = svc.SaveProductImage(adminIdentity(), fileHeader(t, "big.png", "image/png", big))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "too large")

	_, err = svc.SaveProductImage(adminIdentity(), nil)
	assert.True(t, errors.Is(err, ErrNoFile))

	cashier := policy.Identity{UserID: uuid.New(), Username: "kasir", Roles: []string{model.RoleCashier}}
	_, err = svc.SaveProductImage(cashier, fileHeader(t, "menu.png", "image/png", pngHeader))
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
