package services

import (
	"context"
	"errors"
	"sync"

	"blogsync/internal/mirror"
	"blogsync/internal/models"
	"blogsync/internal/notion"
)

// Заглушки внешних зависимостей

type fakeResolver struct {
	mu       sync.Mutex
	statuses map[string]models.PageStatus
	errs     map[string]error
	calls    []string
}

func (f *fakeResolver) PageStatus(_ context.Context, pageID string) (models.PageStatus, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pageID)
	f.mu.Unlock()
	if err, ok := f.errs[pageID]; ok {
		return models.PageStatus{}, err
	}
	st, ok := f.statuses[pageID]
	if !ok {
		return models.PageStatus{}, notion.ErrNotFound
	}
	return st, nil
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeInvalidator struct {
	rec     *recorder
	pathErr error
	tagErr  error
}

func (f *fakeInvalidator) InvalidatePath(_ context.Context, path string) error {
	f.rec.add("path:" + path)
	return f.pathErr
}

func (f *fakeInvalidator) InvalidateTag(_ context.Context, tag string) error {
	f.rec.add("tag:" + tag)
	return f.tagErr
}

type fakePostMirror struct {
	rec *recorder
	err error
}

func (f *fakePostMirror) MirrorPost(_ context.Context, st models.PageStatus) ([]models.ImageAsset, error) {
	f.rec.add("mirror:" + st.PageID)
	if f.err != nil {
		return nil, f.err
	}
	return []models.ImageAsset{{PageID: st.PageID, BlockID: "b1", Mirrored: true}}, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
	fail    map[string]bool
}

func (f *fakeUploader) Upload(_ context.Context, src string, opts mirror.UploadOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, opts.PublicID)
	if f.fail[src] {
		return "", errors.New("cdn unavailable")
	}
	return "https://res.cloudinary.com/demo/image/upload/blog/" + opts.PublicID, nil
}

func (f *fakeUploader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

type fakeBlocks struct {
	trees map[string][]*notion.Node
	err   error
	calls int
}

func (f *fakeBlocks) BlockTree(_ context.Context, pageID string) ([]*notion.Node, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.trees[pageID], nil
}

func imageNode(id, url string) *notion.Node {
	return &notion.Node{Block: notion.Block{
		ID:   id,
		Type: "image",
		Content: notion.BlockContent{
			Type: "file",
			File: &notion.FileObject{URL: url},
		},
	}}
}

func textNode(id, typ, text string, children ...*notion.Node) *notion.Node {
	return &notion.Node{
		Block: notion.Block{
			ID:          id,
			Type:        typ,
			HasChildren: len(children) > 0,
			Content:     notion.BlockContent{RichText: []notion.RichText{{Type: "text", PlainText: text}}},
		},
		Children: children,
	}
}
