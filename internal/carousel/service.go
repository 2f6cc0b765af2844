// Package carousel cycles through the unique images of a bucket, one image
// per request, deduplicating name collisions across extensions.
package carousel

import (
	"context"
	"math/rand"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/validate"
	"github.com/FawkesguyD/Love/internal/model"
	"github.com/FawkesguyD/Love/internal/photostock"
)

// extensionPriority ranks which object wins when several extensions share a
// base name. Lower is better.
var extensionPriority = map[string]int{
	".webp": 0,
	".png":  1,
	".jpg":  2,
	".jpeg": 3,
	".gif":  4,
}

// Selection is one chosen carousel image.
type Selection struct {
	Name string
	Key  string
}

// Service picks carousel images. The sequential cursor survives across
// requests and wraps around the sorted name list.
type Service struct {
	store *photostock.Service
	log   zerolog.Logger

	mu     sync.Mutex
	cursor int
}

func NewService(store *photostock.Service, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Index lists the bucket and builds the unique name -> key mapping.
func (s *Service) Index(ctx context.Context) (map[string]string, error) {
	keys, err := s.store.ListKeys(ctx, "")
	if err != nil {
		return nil, err
	}
	return buildImageIndex(keys), nil
}

// Choose selects the next image sequentially, or uniformly at random when
// useRandom is set. It returns model.ErrNotFound for an empty index.
func (s *Service) Choose(index map[string]string, useRandom bool) (Selection, error) {
	if len(index) == 0 {
		return Selection{}, model.ErrNotFound
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)

	s.mu.Lock()
	var name string
	if useRandom {
		name = names[rand.Intn(len(names))]
	} else {
		name = names[s.cursor%len(names)]
		s.cursor = (s.cursor + 1) % len(names)
	}
	s.mu.Unlock()

	sel := Selection{Name: name, Key: index[name]}
	mode := "sequence"
	if useRandom {
		mode = "random"
	}
	s.log.Info().Str("image", sel.Name).Str("key", sel.Key).Str("mode", mode).Msg("Selected carousel image")
	return sel, nil
}

// Load fetches the selected object.
func (s *Service) Load(ctx context.Context, key string) (*photostock.Image, error) {
	return s.store.Load(ctx, key)
}

// buildImageIndex keeps one key per safe base name, preferring the extension
// with the lowest priority rank. The first key seen wins ties.
func buildImageIndex(keys []string) map[string]string {
	index := make(map[string]string)

	for _, key := range keys {
		if strings.ContainsAny(key, "/\\\x00") {
			continue
		}
		ext := strings.ToLower(path.Ext(key))
		if _, ok := extensionPriority[ext]; !ok {
			continue
		}
		stem, err := validate.ImageName(strings.TrimSuffix(key, path.Ext(key)))
		if err != nil {
			continue
		}

		existing, ok := index[stem]
		if !ok {
			index[stem] = key
			continue
		}
		if extensionPriority[ext] < extensionPriority[strings.ToLower(path.Ext(existing))] {
			index[stem] = key
		}
	}
	return index
}
