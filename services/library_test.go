package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-scout/models"
)

// pdfParts baut multipart-FileHeader wie sie gin aus einem echten
// Upload-Request liefert.
func pdfParts(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range names {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
		header.Set("Content-Type", "application/pdf")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"]
}

func TestStoreUploads_OrderPreserved(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	svc := NewFileService(db, store, zap.NewNop())

	parts := pdfParts(t, "first.pdf", "second.pdf", "third.pdf")
	ids, err := svc.StoreUploads(context.Background(), "u1", parts)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	for i, id := range ids {
		var file models.UploadedFile
		require.NoError(t, db.First(&file, id).Error)
		assert.Equal(t, parts[i].Filename, file.Name)
		assert.Equal(t, "application/pdf", file.MimeType)
		assert.Equal(t, "u1", file.UserID)
		assert.NotEmpty(t, file.Path)
	}
	assert.Equal(t, 3, store.saves)
}

func TestList_ReturnsResolvableURLs(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	svc := NewFileService(db, store, zap.NewNop())

	require.NoError(t, db.Create(&models.UploadedFile{
		UserID: "u1", Name: "a.pdf", MimeType: "application/pdf", Size: 9, Path: "blob-1.pdf",
	}).Error)
	require.NoError(t, db.Create(&models.UploadedFile{UserID: "u2", Name: "b.pdf", Path: "blob-2.pdf"}).Error)

	views, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a.pdf", views[0].Name)
	assert.Equal(t, "https://files.test/blob-1.pdf", views[0].URL)
}

func TestFileDelete(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	svc := NewFileService(db, store, zap.NewNop())

	key, err := store.Save(context.Background(), "a.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	file := models.UploadedFile{UserID: "u1", Name: "a.pdf", Path: key}
	require.NoError(t, db.Create(&file).Error)

	require.NoError(t, svc.Delete(context.Background(), "u1", file.ID))

	var count int64
	require.NoError(t, db.Model(&models.UploadedFile{}).Count(&count).Error)
	assert.Zero(t, count)
	// Genau ein Delete-Aufruf gegen den File-Store.
	require.Len(t, store.deletes, 1)
	assert.Equal(t, key, store.deletes[0])
}

func TestFileDelete_Ownership(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	svc := NewFileService(db, store, zap.NewNop())

	file := models.UploadedFile{UserID: "u1", Name: "a.pdf", Path: "blob-1.pdf"}
	require.NoError(t, db.Create(&file).Error)

	err := svc.Delete(context.Background(), "someone-else", file.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.deletes)
}
