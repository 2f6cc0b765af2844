// Package photostock resolves extension-less image names against an
// S3-compatible bucket and serves the matching object.
package photostock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/model"
)

// allowedExtensions are the object suffixes a lookup may resolve to.
// Comparison is case-insensitive.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ErrUnavailable reports that the object store could not be reached.
var ErrUnavailable = errors.New("image storage is unavailable")

// s3API is the slice of the S3 client the service uses.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Image is a fetched object ready to be written to a response.
type Image struct {
	Body        []byte
	ContentType string
	Filename    string
}

// Service looks up images by their extension-less base name.
type Service struct {
	s3     s3API
	bucket string
	log    zerolog.Logger
}

func NewService(client s3API, bucket string, log zerolog.Logger) *Service {
	return &Service{s3: client, bucket: bucket, log: log}
}

// FindKey resolves an image name to exactly one object key. It returns
// model.ErrNotFound when nothing matches and model.ErrConflict when the
// name is ambiguous across extensions.
func (s *Service) FindKey(ctx context.Context, imageName string) (string, error) {
	keys, err := s.ListKeys(ctx, imageName+".")
	if err != nil {
		return "", err
	}

	var matches []string
	for _, key := range keys {
		if strings.ContainsAny(key, "/\\\x00") {
			continue
		}
		ext := path.Ext(key)
		if strings.TrimSuffix(key, ext) != imageName {
			continue
		}
		if _, ok := allowedExtensions[strings.ToLower(ext)]; !ok {
			continue
		}
		matches = append(matches, key)
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", model.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: multiple files found for '%s': %s",
			model.ErrConflict, imageName, strings.Join(matches, ", "))
	}
}

// Load fetches the object body and content type for a resolved key.
func (s *Service) Load(ctx context.Context, key string) (*Image, error) {
	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, model.ErrNotFound
		}
		s.log.Error().Err(err).Str("key", key).Msg("Failed to fetch object")
		return nil, ErrUnavailable
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Failed to read object body")
		return nil, ErrUnavailable
	}

	filename := strings.NewReplacer("\\", "_", `"`, "").Replace(path.Base(key))
	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Image{Body: body, ContentType: contentType, Filename: filename}, nil
}

// ListKeys pages through the bucket listing for the given prefix. An empty
// prefix lists the whole bucket.
func (s *Service) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var continuation *string

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1000),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	for {
		input.ContinuationToken = continuation
		out, err := s.s3.ListObjectsV2(ctx, input)
		if err != nil {
			s.log.Error().Err(err).Str("bucket", s.bucket).Msg("Failed to list objects")
			return nil, ErrUnavailable
		}
		for _, obj := range out.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			return keys, nil
		}
		continuation = out.NextContinuationToken
	}
}
