package carousel

import (
	"bytes"
	"context"
	"io"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/photostock"
	"github.com/FawkesguyD/Love/internal/platform/logger"
)

// fakeS3 returns all keys in one page.
type fakeS3 struct {
	keys map[string][]byte
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var names []string
	for key := range f.keys {
		names = append(names, key)
	}
	sort.Strings(names)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, name := range names {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(name)})
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.keys[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(body)),
		ContentType: aws.String("image/png"),
	}, nil
}

func newCarouselService(keys map[string][]byte) *Service {
	log := logger.New("carousel-test")
	store := photostock.NewService(&fakeS3{keys: keys}, "photos-test", log)
	return NewService(store, log)
}

func TestBuildImageIndexDeduplicatesByPriority(t *testing.T) {
	index := buildImageIndex([]string{
		"sunset.jpg",
		"sunset.webp",
		"sunset.gif",
		"beach.jpeg",
		"beach.png",
		"notes.txt",
		"dir/inside.png",
		"with space.png",
	})

	assert.Equal(t, map[string]string{
		"sunset": "sunset.webp",
		"beach":  "beach.png",
	}, index)
}

func TestChooseSequentialWrapsAround(t *testing.T) {
	svc := newCarouselService(nil)
	index := map[string]string{
		"a": "a.png",
		"b": "b.png",
		"c": "c.png",
	}

	var got []string
	for i := 0; i < 6; i++ {
		sel, err := svc.Choose(index, false)
		require.NoError(t, err)
		got = append(got, sel.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, got)
}

func TestChooseRandomDoesNotAdvanceCursor(t *testing.T) {
	svc := newCarouselService(nil)
	index := map[string]string{"a": "a.png", "b": "b.png"}

	for i := 0; i < 5; i++ {
		sel, err := svc.Choose(index, true)
		require.NoError(t, err)
		assert.Contains(t, []string{"a", "b"}, sel.Name)
	}

	// Sequential selection still starts at the beginning.
	sel, err := svc.Choose(index, false)
	require.NoError(t, err)
	assert.Equal(t, "a", sel.Name)
}

func TestChooseEmptyIndex(t *testing.T) {
	svc := newCarouselService(nil)

	_, err := svc.Choose(map[string]string{}, false)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestIndexListsBucket(t *testing.T) {
	svc := newCarouselService(map[string][]byte{
		"sunset.png": []byte("png"),
		"sunset.jpg": []byte("jpg"),
	})

	index, err := svc.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sunset": "sunset.png"}, index)
}
