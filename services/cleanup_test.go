package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doc-scout/models"
)

func TestCleanup_RemovesOnlyOldOrphans(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()

	// Referenzierter Blob
	refKey, err := store.Save(context.Background(), "kept.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.UploadedFile{UserID: "u1", Name: "kept.pdf", Path: refKey}).Error)

	// Alter Waisen-Blob
	orphanKey, err := store.Save(context.Background(), "orphan.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	store.modified[orphanKey] = time.Now().Add(-2 * time.Hour)

	// Frischer Waisen-Blob (laufender Upload), bleibt stehen
	freshKey, err := store.Save(context.Background(), "fresh.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	svc := NewCleanupService(db, store, zap.NewNop(), time.Hour)
	deleted, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{orphanKey}, store.deletes)
	assert.Contains(t, store.objects, refKey)
	assert.Contains(t, store.objects, freshKey)
}
