package search

import (
	"context"
	"errors"
	"path"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/questboard/backend/pkg/xcontext"
)

// QuestData is the indexed projection of a quest used for duplicate
// candidate lookup and similar-quests queries.
type QuestData struct {
	Title       string
	Description string
	Region      string
}

type Index interface {
	Index(id string, data QuestData) error
	Delete(id string) error
	Search(query string, limit int) ([]string, error)
	Close()
}

type bleveIndex struct {
	mutex sync.Mutex
	index bleve.Index
}

func NewBleveIndex(ctx context.Context) (*bleveIndex, error) {
	indexPath := path.Join(xcontext.Configs(ctx).Search.IndexDir, "quest")

	index, err := bleve.New(indexPath, bleve.NewIndexMapping())
	if err != nil {
		if !errors.Is(err, bleve.ErrorIndexPathExists) {
			return nil, err
		}

		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, err
		}
	}

	return &bleveIndex{index: index}, nil
}

// NewMemIndex creates an in-memory index, used by tests.
func NewMemIndex() (*bleveIndex, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}

	return &bleveIndex{index: index}, nil
}

func (i *bleveIndex) Index(id string, data QuestData) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	record, err := i.index.Document(id)
	if err != nil {
		return err
	}

	if record != nil {
		if err := i.index.Delete(id); err != nil {
			return err
		}
	}

	return i.index.Index(id, data)
}

func (i *bleveIndex) Delete(id string) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	return i.index.Delete(id)
}

func (i *bleveIndex) Search(query string, limit int) ([]string, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, 0, false)
	searchResults, err := i.index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, match := range searchResults.Hits {
		ids = append(ids, match.ID)
	}

	return ids, nil
}

func (i *bleveIndex) Close() {
	if err := i.index.Close(); err != nil {
		return
	}
}
