package notion

import (
	"encoding/json"
	"strings"
	"time"
)

type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

type RichText struct {
	Type        string      `json:"type"`
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href"`
	Annotations Annotations `json:"annotations"`
	Equation    *struct {
		Expression string `json:"expression"`
	} `json:"equation,omitempty"`
}

// PlainText склеивает plain_text всех фрагментов.
func PlainText(rt []RichText) string {
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return b.String()
}

type FileObject struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time,omitempty"`
}

// FileRef: файл Notion: {"type":"file","file":{...}} или {"type":"external","external":{...}}.
type FileRef struct {
	Type     string      `json:"type"`
	File     *FileObject `json:"file,omitempty"`
	External *FileObject `json:"external,omitempty"`
}

// URL возвращает ссылку только для типов file/external.
func (f *FileRef) URL() string {
	if f == nil {
		return ""
	}
	switch f.Type {
	case "file":
		if f.File != nil {
			return f.File.URL
		}
	case "external":
		if f.External != nil {
			return f.External.URL
		}
	}
	return ""
}

type Option struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type Property struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       []RichText `json:"title,omitempty"`
	RichText    []RichText `json:"rich_text,omitempty"`
	Select      *Option    `json:"select,omitempty"`
	Status      *Option    `json:"status,omitempty"`
	MultiSelect []Option   `json:"multi_select,omitempty"`
	Date        *DateValue `json:"date,omitempty"`
	Checkbox    bool       `json:"checkbox,omitempty"`
	URL         *string    `json:"url,omitempty"`
}

// Text: строковое значение свойства для title/rich_text/select/status/date/url.
func (p *Property) Text() string {
	if p == nil {
		return ""
	}
	switch p.Type {
	case "title":
		return PlainText(p.Title)
	case "rich_text":
		return PlainText(p.RichText)
	case "select":
		if p.Select != nil {
			return p.Select.Name
		}
	case "status":
		if p.Status != nil {
			return p.Status.Name
		}
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", ")
	case "date":
		if p.Date != nil {
			return p.Date.Start
		}
	case "checkbox":
		if p.Checkbox {
			return "true"
		}
		return "false"
	case "url":
		if p.URL != nil {
			return *p.URL
		}
	}
	return ""
}

type Page struct {
	Object         string              `json:"object"`
	ID             string              `json:"id"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	InTrash        bool                `json:"in_trash"`
	Archived       bool                `json:"archived"`
	Cover          *FileRef            `json:"cover"`
	Properties     map[string]Property `json:"properties"`
}

// Prop возвращает свойство по имени или nil.
func (p *Page) Prop(name string) *Property {
	if p == nil || p.Properties == nil {
		return nil
	}
	prop, ok := p.Properties[name]
	if !ok {
		return nil
	}
	return &prop
}

// BlockContent: объединение полей всех типов блоков, которые мы понимаем.
// Notion кладёт их под ключом, равным типу блока.
type BlockContent struct {
	RichText        []RichText   `json:"rich_text,omitempty"`
	Checked         bool         `json:"checked,omitempty"`
	Language        string       `json:"language,omitempty"`
	Caption         []RichText   `json:"caption,omitempty"`
	Type            string       `json:"type,omitempty"`
	File            *FileObject  `json:"file,omitempty"`
	External        *FileObject  `json:"external,omitempty"`
	URL             string       `json:"url,omitempty"`
	Expression      string       `json:"expression,omitempty"`
	Icon            *Icon        `json:"icon,omitempty"`
	TableWidth      int          `json:"table_width,omitempty"`
	HasColumnHeader bool         `json:"has_column_header,omitempty"`
	Cells           [][]RichText `json:"cells,omitempty"`
	Title           string       `json:"title,omitempty"`
	IsToggleable    bool         `json:"is_toggleable,omitempty"`
}

// FileURL: ссылка файла для image/video/file/pdf блоков.
func (c BlockContent) FileURL() string {
	ref := FileRef{Type: c.Type, File: c.File, External: c.External}
	return ref.URL()
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

type Block struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	HasChildren bool         `json:"has_children"`
	Content     BlockContent `json:"-"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	type plain Block
	var head plain
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	*b = Block(head)
	if payload, ok := raw[b.Type]; ok && len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &b.Content); err != nil {
			return err
		}
	}
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"object":       "block",
		"id":           b.ID,
		"type":         b.Type,
		"has_children": b.HasChildren,
	}
	if b.Type != "" {
		out[b.Type] = b.Content
	}
	return json.Marshal(out)
}

// Node: блок вместе с дочерними блоками.
type Node struct {
	Block    Block
	Depth    int
	Children []*Node
}

type listResponse[T any] struct {
	Results    []T     `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}
