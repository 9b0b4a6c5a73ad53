package models

import "time"

// ImageAsset: зеркальная копия картинки из Notion.
// (PageID, BlockID, ContentHash): ключ идемпотентности.
type ImageAsset struct {
	PageID      string    `json:"pageId"`
	BlockID     string    `json:"blockId"`
	ContentHash string    `json:"contentHash"`
	PublicID    string    `json:"publicId"`
	SourceURL   string    `json:"sourceUrl"` // без query-string
	MirrorURL   string    `json:"mirrorUrl"`
	Mirrored    bool      `json:"mirrored"` // false: загрузка упала, MirrorURL = исходная подписанная ссылка
	CreatedAt   time.Time `json:"createdAt"`
}
