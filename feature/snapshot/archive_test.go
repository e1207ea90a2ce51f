package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"warehouse-sync/core/reconcile"
	"warehouse-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "snapshots/1773480413.json", ObjectName(reconcile.Snapshot{TakenAt: fixedNow}))
}

func TestArchive_PutUploadsBothObjects(t *testing.T) {
	m := new(mocks.Client)
	m.On("PutObject", mock.Anything, "bucket", "snapshots/1773480413.json", mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	m.On("PutObject", mock.Anything, "bucket", LatestObject, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	a := NewArchive(m, "bucket", 0, nil)
	name, err := a.Put(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/1773480413.json", name)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchive_PutFailure(t *testing.T) {
	m := new(mocks.Client)
	m.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("access denied"))

	a := NewArchive(m, "bucket", 5, nil)
	_, err := a.Put(context.Background(), sampleSnapshot())
	assert.ErrorContains(t, err, "access denied")
}

func TestArchive_PrunesBeyondRetention(t *testing.T) {
	m := new(mocks.Client)
	m.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	m.On("ListObjects", mock.Anything, "bucket", mock.Anything).Return(mocks.Listing(
		"snapshots/300.json", "snapshots/latest.json", "snapshots/100.json", "snapshots/200.json", "snapshots/notes.txt",
	))

	var removed []string
	m.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
				removed = append(removed, obj.Key)
			}
		}).
		Return(nil)

	a := NewArchive(m, "bucket", 2, nil)
	_, err := a.Put(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/100.json"}, removed)
}

func TestArchive_PruneFailureKeepsUpload(t *testing.T) {
	m := new(mocks.Client)
	m.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	m.On("ListObjects", mock.Anything, "bucket", mock.Anything).Return(mocks.Listing("snapshots/100.json", "snapshots/200.json"))
	m.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, mock.Anything).
		Return(mocks.RemoveErrors(minio.RemoveObjectError{ObjectName: "snapshots/100.json", Err: errors.New("access denied")}))

	core, logs := observer.New(zap.WarnLevel)
	a := NewArchive(m, "bucket", 1, zap.New(core))
	name, err := a.Put(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/1773480413.json", name)
	assert.Equal(t, 1, logs.FilterMessage("Snapshot retention pruning failed").Len())
}

func TestArchive_List(t *testing.T) {
	m := new(mocks.Client)
	m.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: Prefix, Recursive: true}).Return(mocks.Listing(
		"snapshots/20.json", "snapshots/3.json", "snapshots/latest.json", "snapshots/old/1.json",
	))

	names, err := NewArchive(m, "bucket", 0, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/3.json", "snapshots/20.json"}, names)
}

func TestArchive_Latest(t *testing.T) {
	raw, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	m := new(mocks.Client)
	m.On("GetObject", mock.Anything, "bucket", LatestObject, mock.Anything).Return(io.NopCloser(bytes.NewReader(raw)), nil)

	got, err := NewArchive(m, "bucket", 0, nil).Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Warehouses, 2)
	assert.Equal(t, int64(40), got.Warehouses[0].Inventory["sku1"].Quantity)
	assert.Len(t, got.Conflicts, 2)
}

func TestArchive_LatestMissing(t *testing.T) {
	m := new(mocks.Client)
	notFound := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	m.On("GetObject", mock.Anything, "bucket", LatestObject, mock.Anything).Return(io.NopCloser(&failingReader{err: notFound}), nil)

	_, err := NewArchive(m, "bucket", 0, nil).Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoArchive)
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }
